package transport

import (
	"net/http"

	"bizdirectory/internal/middleware"
	"bizdirectory/internal/service"

	"github.com/google/uuid"
)

// requestAuth answers AuthState from the identity OptionalAuth attached to
// the request. Token checks finish before the handler runs, so it never
// reports loading.
type requestAuth struct {
	userID uuid.UUID
	ok     bool
}

func authFromRequest(r *http.Request) service.AuthState {
	userID, ok := middleware.GetUserID(r.Context())
	return requestAuth{userID: userID, ok: ok}
}

func (a requestAuth) Identity() (uuid.UUID, bool) { return a.userID, a.ok }
func (a requestAuth) Loading() bool               { return false }

// Notification is a toast the client should show
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// sessionRecorder collects the navigation and toasts a screen asks for
// during one request so they can be returned to the client
type sessionRecorder struct {
	redirectTo   string
	notification *Notification
}

func (s *sessionRecorder) SignIn()    { s.redirectTo = service.RouteSignIn }
func (s *sessionRecorder) Dashboard() { s.redirectTo = service.RouteDashboard }
func (s *sessionRecorder) Home()      { s.redirectTo = service.RouteHome }

func (s *sessionRecorder) BusinessDetail(id uuid.UUID) {
	s.redirectTo = service.BusinessDetailRoute(id)
}

func (s *sessionRecorder) Success(message string) {
	s.notification = &Notification{Kind: "success", Message: message}
}

func (s *sessionRecorder) Error(message string) {
	s.notification = &Notification{Kind: "error", Message: message}
}
