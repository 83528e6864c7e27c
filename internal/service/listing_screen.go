package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bizdirectory/internal/domain"
	"bizdirectory/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnauthenticated = errors.New("no authenticated identity")
	ErrAuthPending     = errors.New("authentication state is still loading")
)

// UploadTargets says where listing images are written
type UploadTargets struct {
	LogoBucket    string
	ProductBucket string
	CacheControl  string
}

// ListingScreenDeps bundles the collaborators of a ListingScreen
type ListingScreenDeps struct {
	Auth      AuthState
	Storage   ObjectStorage
	Writer    BusinessWriter
	Navigator Navigator
	Notifier  Notifier
	Targets   UploadTargets
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// ListingScreen runs the listing submission workflow for one user
type ListingScreen struct {
	deps ListingScreenDeps

	mu      sync.Mutex
	draft   *ListingDraft
	state   SubmissionState
	lastErr error
}

// NewListingScreen creates a screen with an empty draft
func NewListingScreen(deps ListingScreenDeps) *ListingScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &ListingScreen{
		deps:  deps,
		draft: NewListingDraft(),
		state: StateIdle,
	}
}

// Draft exposes the form draft for field-by-field edits. Edits made while a
// submission is in flight do not reach that submission.
func (s *ListingScreen) Draft() *ListingDraft {
	return s.draft
}

// State returns the state of the current or last attempt
func (s *ListingScreen) State() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the last failed attempt
func (s *ListingScreen) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ListingFormView is what the form renders for the current user
type ListingFormView struct {
	Loading        bool                    `json:"loading"`
	SignInRequired bool                    `json:"sign_in_required"`
	SubmitDisabled bool                    `json:"submit_disabled"`
	State          string                  `json:"state"`
	Fields         []DraftField            `json:"fields,omitempty"`
	Options        []domain.BusinessOption `json:"options,omitempty"`
	MaxImages      int                     `json:"max_product_images,omitempty"`
}

// View renders nothing but a loading state until auth settles, and a
// sign-in prompt instead of the form when nobody is signed in
func (s *ListingScreen) View() ListingFormView {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	view := ListingFormView{State: state.String()}
	if s.deps.Auth.Loading() {
		view.Loading = true
		view.SubmitDisabled = true
		return view
	}
	if _, ok := s.deps.Auth.Identity(); !ok {
		view.SignInRequired = true
		view.SubmitDisabled = true
		return view
	}

	view.SubmitDisabled = state.InFlight()
	view.Fields = DraftFields
	view.Options = domain.BusinessOptions
	view.MaxImages = domain.MaxProductImages
	return view
}

// Submit runs one submission attempt to a terminal state
func (s *ListingScreen) Submit(ctx context.Context) error {
	s.mu.Lock()

	if s.deps.Auth.Loading() {
		s.mu.Unlock()
		return ErrAuthPending
	}

	ownerID, authenticated := s.deps.Auth.Identity()
	if !authenticated {
		next, err := Transition(s.state, SubmissionEvent{Kind: EventSubmit})
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.state = next
		s.lastErr = ErrUnauthenticated
		s.mu.Unlock()

		s.deps.Logger.Info("Listing submission blocked, no identity")
		s.deps.Metrics.SubmissionsTotal.WithLabelValues(StateBlocked.String()).Inc()
		s.deps.Notifier.Error(MessageSignInRequired)
		s.deps.Navigator.SignIn()
		return ErrUnauthenticated
	}

	if err := s.draft.Validate(); err != nil {
		next, terr := Transition(s.state, SubmissionEvent{Kind: EventInvalid})
		if terr != nil {
			s.mu.Unlock()
			return terr
		}
		s.state = next
		s.lastErr = err
		s.mu.Unlock()

		s.deps.Logger.Debug("Listing draft rejected", zap.Error(err))
		s.deps.Metrics.SubmissionsTotal.WithLabelValues(StateFailed.String()).Inc()
		s.deps.Notifier.Error(UserMessage(err, MessageListingFailed))
		return err
	}

	draft := s.draft.clone()
	next, err := Transition(s.state, SubmissionEvent{
		Kind:          EventSubmit,
		Authenticated: true,
		HasUploads:    draft.HasUploads(),
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.lastErr = nil
	s.mu.Unlock()

	logger := s.deps.Logger.With(zap.String("owner_id", ownerID.String()))

	var logoURL *string
	var productURLs []string
	if next == StateUploading {
		stamp := s.deps.Now()

		if logo := draft.Logo(); logo != nil {
			url, err := s.uploadLogo(ctx, ownerID, stamp, *logo)
			if err != nil {
				return s.fail(logger, err)
			}
			logoURL = &url
		}

		productURLs, err = s.uploadProductImages(ctx, ownerID, stamp, draft.ProductImages())
		if err != nil {
			return s.fail(logger, err)
		}

		if err := s.advance(SubmissionEvent{Kind: EventUploadsDone}); err != nil {
			return err
		}
	}

	row := BuildPayload(draft, ownerID, logoURL, productURLs)
	if err := s.deps.Writer.Insert(ctx, row); err != nil {
		return s.fail(logger, err)
	}

	if err := s.advance(SubmissionEvent{Kind: EventInsertAccepted}); err != nil {
		return err
	}

	s.mu.Lock()
	s.draft.Reset()
	s.mu.Unlock()

	logger.Info("Business listing created", zap.String("name", row.Name))
	s.deps.Metrics.SubmissionsTotal.WithLabelValues(StateSucceeded.String()).Inc()
	s.deps.Notifier.Success(MessageListingCreated)
	s.deps.Navigator.Dashboard()
	return nil
}

func (s *ListingScreen) advance(event SubmissionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Transition(s.state, event)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// fail ends the attempt; the draft is left as entered so the user can retry
func (s *ListingScreen) fail(logger *zap.Logger, cause error) error {
	s.mu.Lock()
	next, err := Transition(s.state, SubmissionEvent{Kind: EventFailed})
	if err == nil {
		s.state = next
	}
	s.lastErr = cause
	s.mu.Unlock()

	logger.Error("Listing submission failed", zap.Error(cause))
	s.deps.Metrics.SubmissionsTotal.WithLabelValues(StateFailed.String()).Inc()
	s.deps.Notifier.Error(UserMessage(cause, MessageListingFailed))
	return cause
}

func (s *ListingScreen) uploadOptions() domain.UploadOptions {
	return domain.UploadOptions{CacheControl: s.deps.Targets.CacheControl, Upsert: false}
}

func (s *ListingScreen) uploadLogo(ctx context.Context, ownerID uuid.UUID, stamp time.Time, logo domain.Upload) (string, error) {
	bucket := s.deps.Targets.LogoBucket
	stored, err := s.deps.Storage.Upload(ctx, bucket, LogoPath(ownerID, stamp, logo.Filename), logo, s.uploadOptions())
	if err != nil {
		s.deps.Metrics.UploadsTotal.WithLabelValues("logos", "error").Inc()
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}
	s.deps.Metrics.UploadsTotal.WithLabelValues("logos", "ok").Inc()
	return s.deps.Storage.PublicURL(bucket, stored), nil
}

// uploadProductImages uploads all images concurrently. The group fails as a
// whole on the first error; siblings already in flight are not cancelled and
// their results are dropped.
func (s *ListingScreen) uploadProductImages(ctx context.Context, ownerID uuid.UUID, stamp time.Time, files []domain.Upload) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	bucket := s.deps.Targets.ProductBucket
	urls := make([]string, len(files))

	var g errgroup.Group
	for i, file := range files {
		g.Go(func() error {
			stored, err := s.deps.Storage.Upload(ctx, bucket, ProductImagePath(ownerID, stamp, i, file.Filename), file, s.uploadOptions())
			if err != nil {
				s.deps.Metrics.UploadsTotal.WithLabelValues("products", "error").Inc()
				return fmt.Errorf("failed to upload product image %d: %w", i, err)
			}
			s.deps.Metrics.UploadsTotal.WithLabelValues("products", "ok").Inc()
			urls[i] = s.deps.Storage.PublicURL(bucket, stored)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// LogoPath namespaces a logo by owner and upload time
func LogoPath(ownerID uuid.UUID, stamp time.Time, filename string) string {
	return fmt.Sprintf("%s/logos/%d-%s", ownerID, stamp.UnixMilli(), safeFilename(filename))
}

// ProductImagePath namespaces a product image by owner, upload time and
// its position in the selection
func ProductImagePath(ownerID uuid.UUID, stamp time.Time, index int, filename string) string {
	return fmt.Sprintf("%s/products/%d-%d-%s", ownerID, stamp.UnixMilli(), index, safeFilename(filename))
}
