package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"bizdirectory/internal/config"
	"bizdirectory/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// ErrObjectExists is returned when a non-upsert upload hits an existing key
var ErrObjectExists = errors.New("object already exists")

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage writes listing images to an S3-compatible bucket
type S3Storage struct {
	client        putObjectAPI
	publicBaseURL string
	logger        *zap.Logger
}

// NewS3Storage builds an S3 client from the storage configuration
func NewS3Storage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewS3StorageWithClient(client, cfg.PublicBaseURL, logger), nil
}

// NewS3StorageWithClient wires an existing PutObject client
func NewS3StorageWithClient(client putObjectAPI, publicBaseURL string, logger *zap.Logger) *S3Storage {
	return &S3Storage{
		client:        client,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Upload writes file under bucket/path and returns the stored path.
// With Upsert disabled the write is conditional, so an existing key fails
// with ErrObjectExists instead of being overwritten.
func (s *S3Storage) Upload(ctx context.Context, bucket, path string, file domain.Upload, opts domain.UploadOptions) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(file.Content),
		ContentLength: aws.Int64(int64(len(file.Content))),
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String("max-age=" + opts.CacheControl)
	}
	if !opts.Upsert {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			s.logger.Warn("Upload collided with existing object",
				zap.String("bucket", bucket),
				zap.String("path", path),
			)
			return "", fmt.Errorf("failed to upload %s/%s: %w: %w", bucket, path, ErrObjectExists, err)
		}
		return "", fmt.Errorf("failed to upload %s/%s: %w", bucket, path, err)
	}

	s.logger.Debug("Object uploaded",
		zap.String("bucket", bucket),
		zap.String("path", path),
		zap.Int("bytes", len(file.Content)),
	)

	return path, nil
}

// PublicURL derives the public address of a stored object without a network call
func (s *S3Storage) PublicURL(bucket, storedPath string) string {
	segments := strings.Split(storedPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return s.publicBaseURL + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}
