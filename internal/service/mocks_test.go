package service

import (
	"context"
	"fmt"
	"sync"

	"bizdirectory/internal/domain"

	"github.com/google/uuid"
)

type uploadCall struct {
	Bucket string
	Path   string
	File   domain.Upload
	Opts   domain.UploadOptions
}

// mockStorage fails any upload whose filename is in failOn
type mockStorage struct {
	mu     sync.Mutex
	calls  []uploadCall
	failOn map[string]error
}

func newMockStorage() *mockStorage {
	return &mockStorage{failOn: make(map[string]error)}
}

func (m *mockStorage) Upload(ctx context.Context, bucket, path string, file domain.Upload, opts domain.UploadOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, uploadCall{Bucket: bucket, Path: path, File: file, Opts: opts})
	if err, ok := m.failOn[file.Filename]; ok {
		return "", err
	}
	return path, nil
}

func (m *mockStorage) PublicURL(bucket, storedPath string) string {
	return fmt.Sprintf("https://cdn.test/%s/%s", bucket, storedPath)
}

func (m *mockStorage) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockWriter struct {
	mu   sync.Mutex
	rows []*domain.BusinessInsert
	err  error
}

func (m *mockWriter) Insert(ctx context.Context, row *domain.BusinessInsert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
	return m.err
}

type mockDirectory struct {
	calls      int
	businesses []*domain.Business
	err        error
}

func (m *mockDirectory) ListPublic(ctx context.Context) ([]*domain.Business, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.businesses, nil
}

type loadingAuth struct{}

func (loadingAuth) Identity() (uuid.UUID, bool) { return uuid.Nil, false }
func (loadingAuth) Loading() bool               { return true }

// recorder captures navigation and toasts
type recorder struct {
	routes    []string
	successes []string
	errors    []string
}

func (r *recorder) SignIn()                     { r.routes = append(r.routes, RouteSignIn) }
func (r *recorder) Dashboard()                  { r.routes = append(r.routes, RouteDashboard) }
func (r *recorder) BusinessDetail(id uuid.UUID) { r.routes = append(r.routes, BusinessDetailRoute(id)) }
func (r *recorder) Home()                       { r.routes = append(r.routes, RouteHome) }
func (r *recorder) Success(message string)      { r.successes = append(r.successes, message) }
func (r *recorder) Error(message string)        { r.errors = append(r.errors, message) }

type screenFixture struct {
	screen  *ListingScreen
	storage *mockStorage
	writer  *mockWriter
	rec     *recorder
	owner   uuid.UUID
}

func newScreenFixture(auth AuthState) *screenFixture {
	f := &screenFixture{
		storage: newMockStorage(),
		writer:  &mockWriter{},
		rec:     &recorder{},
	}
	if auth == nil {
		f.owner = uuid.New()
		auth = StaticAuth{UserID: f.owner, Authenticated: true}
	}
	f.screen = NewListingScreen(ListingScreenDeps{
		Auth:      auth,
		Storage:   f.storage,
		Writer:    f.writer,
		Navigator: f.rec,
		Notifier:  f.rec,
		Targets: UploadTargets{
			LogoBucket:    "business-logos",
			ProductBucket: "product-images",
			CacheControl:  "3600",
		},
	})
	return f
}

func fillRequired(d *ListingDraft) {
	_ = d.Set(FieldName, "Joe's Cafe")
	_ = d.Set(FieldCategory, "Restaurant")
}

func image(name string) domain.Upload {
	return domain.Upload{Filename: name, ContentType: "image/png", Content: []byte(name)}
}
