package transport

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"bizdirectory/internal/domain"
	"bizdirectory/internal/metrics"
	"bizdirectory/internal/middleware"
	"bizdirectory/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockStorage struct {
	mu    sync.Mutex
	paths []string
	files []domain.Upload
	err   error
}

func (m *mockStorage) Upload(ctx context.Context, bucket, path string, file domain.Upload, opts domain.UploadOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, bucket+"/"+path)
	m.files = append(m.files, file)
	if m.err != nil {
		return "", m.err
	}
	return path, nil
}

func (m *mockStorage) PublicURL(bucket, storedPath string) string {
	return fmt.Sprintf("https://cdn.test/%s/%s", bucket, storedPath)
}

type mockWriter struct {
	rows []*domain.BusinessInsert
	err  error
}

func (m *mockWriter) Insert(ctx context.Context, row *domain.BusinessInsert) error {
	m.rows = append(m.rows, row)
	return m.err
}

type mockDirectory struct {
	businesses []*domain.Business
	err        error
}

func (m *mockDirectory) ListPublic(ctx context.Context) ([]*domain.Business, error) {
	return m.businesses, m.err
}

// asUser stands in for OptionalAuth and attaches userID when set
func asUser(userID *uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != nil {
				r = r.WithContext(middleware.WithUserID(r.Context(), *userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func passThrough(next http.Handler) http.Handler { return next }

type listingFixture struct {
	router  chi.Router
	storage *mockStorage
	writer  *mockWriter
}

func newListingFixture(userID *uuid.UUID) *listingFixture {
	f := &listingFixture{storage: &mockStorage{}, writer: &mockWriter{}}
	h := NewListingHandler(f.storage, f.writer, service.UploadTargets{
		LogoBucket:    "business-logos",
		ProductBucket: "product-images",
		CacheControl:  "3600",
	}, zap.NewNop(), metrics.NewNop())

	f.router = chi.NewRouter()
	h.RegisterRoutes(f.router, asUser(userID), passThrough)
	return f
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, fields map[string][]string, files []formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(name, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(f.content)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/listings", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
