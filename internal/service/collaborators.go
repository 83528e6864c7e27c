package service

import (
	"context"
	"fmt"

	"bizdirectory/internal/domain"

	"github.com/google/uuid"
)

// ObjectStorage stores uploaded images
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path string, file domain.Upload, opts domain.UploadOptions) (string, error)
	// PublicURL is a pure derivation and never fails
	PublicURL(bucket, storedPath string) string
}

// BusinessWriter inserts listing rows
type BusinessWriter interface {
	Insert(ctx context.Context, row *domain.BusinessInsert) error
}

// BusinessDirectory reads the public business list
type BusinessDirectory interface {
	ListPublic(ctx context.Context) ([]*domain.Business, error)
}

// AuthState exposes the caller identity as known to the auth provider
type AuthState interface {
	Identity() (uuid.UUID, bool)
	Loading() bool
}

// Navigator moves the user between screens
type Navigator interface {
	SignIn()
	Dashboard()
	BusinessDetail(id uuid.UUID)
	Home()
}

// Notifier shows transient toast messages
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Screen routes
const (
	RouteHome      = "/"
	RouteSignIn    = "/auth/signin"
	RouteDashboard = "/dashboard"
)

// BusinessDetailRoute is the route of a single business page
func BusinessDetailRoute(id uuid.UUID) string {
	return fmt.Sprintf("/business/%s", id)
}

// StaticAuth is an AuthState whose answer is already settled
type StaticAuth struct {
	UserID        uuid.UUID
	Authenticated bool
}

func (a StaticAuth) Identity() (uuid.UUID, bool) {
	return a.UserID, a.Authenticated
}

func (a StaticAuth) Loading() bool {
	return false
}
