package transport

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"bizdirectory/internal/domain"
	"bizdirectory/internal/metrics"
	"bizdirectory/internal/middleware"
	"bizdirectory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	maxListingBody   = 25 << 20
	multipartMemory  = 8 << 20
	formFieldOptions = "business_options"
	formFieldLogo    = "logo"
	formFieldImages  = "product_images"
)

// ListingResponse reports how a submission attempt ended
type ListingResponse struct {
	State        string                       `json:"state"`
	Notification *Notification                `json:"notification,omitempty"`
	RedirectTo   string                       `json:"redirect_to,omitempty"`
	Errors       []middleware.ValidationError `json:"errors,omitempty"`
}

// ListingHandler serves the business listing form
type ListingHandler struct {
	storage service.ObjectStorage
	writer  service.BusinessWriter
	targets service.UploadTargets
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(storage service.ObjectStorage, writer service.BusinessWriter, targets service.UploadTargets, logger *zap.Logger, m *metrics.Metrics) *ListingHandler {
	return &ListingHandler{
		storage: storage,
		writer:  writer,
		targets: targets,
		logger:  logger,
		metrics: m,
	}
}

// RegisterRoutes registers the listing routes. Submissions go through the
// rate limiter after auth so authenticated callers are limited per user.
func (h *ListingHandler) RegisterRoutes(r chi.Router, authMiddleware, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/listings", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/form", h.Form)
		r.With(rateLimit).Post("/", h.Create)
	})
}

func (h *ListingHandler) newScreen(auth service.AuthState, rec *sessionRecorder) *service.ListingScreen {
	return service.NewListingScreen(service.ListingScreenDeps{
		Auth:      auth,
		Storage:   h.storage,
		Writer:    h.writer,
		Navigator: rec,
		Notifier:  rec,
		Targets:   h.targets,
		Logger:    h.logger,
		Metrics:   h.metrics,
	})
}

// Form returns what the listing form should show to the caller
func (h *ListingHandler) Form(w http.ResponseWriter, r *http.Request) {
	screen := h.newScreen(authFromRequest(r), &sessionRecorder{})
	middleware.RespondWithJSON(w, http.StatusOK, screen.View())
}

// Create runs one listing submission from a multipart form. Anonymous
// callers are blocked before the form is read, so a malformed body still
// answers with the sign-in redirect.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	auth := authFromRequest(r)
	rec := &sessionRecorder{}
	screen := h.newScreen(auth, rec)

	if _, ok := auth.Identity(); !ok {
		h.respond(w, screen, rec, screen.Submit(r.Context()))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxListingBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "listing is too large")
			return
		}
		h.logger.Debug("Failed to parse listing form", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	if err := fillDraft(screen.Draft(), r); err != nil {
		h.logger.Debug("Rejected listing form", zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "invalid listing form", map[string]interface{}{
			"reason": err.Error(),
		})
		return
	}

	h.respond(w, screen, rec, screen.Submit(r.Context()))
}

// respond maps the outcome of Submit to a status and the recorded
// navigation and toast
func (h *ListingHandler) respond(w http.ResponseWriter, screen *service.ListingScreen, rec *sessionRecorder, err error) {
	resp := ListingResponse{
		State:        screen.State().String(),
		Notification: rec.notification,
		RedirectTo:   rec.redirectTo,
	}

	status := http.StatusCreated
	var verr *service.ValidationError
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp.Errors = middleware.FormatValidationErrors(err)
	default:
		status = http.StatusBadGateway
	}

	middleware.RespondWithJSON(w, status, resp)
}

// fillDraft copies the form into the draft: every known text field,
// each checked option, and the selected files
func fillDraft(d *service.ListingDraft, r *http.Request) error {
	for _, field := range service.DraftFields {
		if values, ok := r.PostForm[string(field)]; ok && len(values) > 0 {
			if err := d.Set(field, values[0]); err != nil {
				return err
			}
		}
	}

	for _, option := range r.PostForm[formFieldOptions] {
		if err := d.ToggleOption(domain.BusinessOption(option), true); err != nil {
			return err
		}
	}

	if r.MultipartForm == nil {
		return nil
	}

	if logos := r.MultipartForm.File[formFieldLogo]; len(logos) > 0 {
		logo, err := readUpload(logos[0])
		if err != nil {
			return err
		}
		d.SetLogo(&logo)
	}

	headers := r.MultipartForm.File[formFieldImages]
	if len(headers) > domain.MaxProductImages {
		headers = headers[:domain.MaxProductImages]
	}
	images := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		img, err := readUpload(fh)
		if err != nil {
			return err
		}
		images = append(images, img)
	}
	d.SetProductImages(images)

	return nil
}

func readUpload(fh *multipart.FileHeader) (domain.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}

	return domain.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}
