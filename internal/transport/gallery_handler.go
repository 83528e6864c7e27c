package transport

import (
	"net/http"

	"bizdirectory/internal/metrics"
	"bizdirectory/internal/middleware"
	"bizdirectory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GalleryHandler serves the public directory
type GalleryHandler struct {
	directory service.BusinessDirectory
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(directory service.BusinessDirectory, logger *zap.Logger, m *metrics.Metrics) *GalleryHandler {
	return &GalleryHandler{directory: directory, logger: logger, metrics: m}
}

// RegisterRoutes registers the gallery routes
func (h *GalleryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/businesses", h.List)
}

// List mounts a fresh gallery for the request and renders its cards. A
// failed fetch still answers 200 with an empty list.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	gallery := service.NewGallery(h.directory, h.logger, h.metrics)
	gallery.Mount(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, gallery.Render())
}
