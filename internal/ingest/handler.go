// handler.go

package ingest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkraiem/facture-saas/internal/config"
	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/invoice"
	"github.com/mkraiem/facture-saas/internal/middleware"
)

type Handler struct {
	service *Service
	upload  config.UploadConfig
}

func NewHandler(service *Service, upload config.UploadConfig) *Handler {
	return &Handler{service: service, upload: upload}
}

// RegisterRoutes mounts the upload endpoint. rateLimit is the
// per-user upload limiter; extraction calls are too expensive to leave
// uncapped.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, rateLimit func(http.Handler) http.Handler,
) {
	r.Route("/invoices/upload", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(rateLimit)

		r.Post("/", h.Upload)
	})
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	claims := middleware.GetClaims(r.Context())
	if claims == nil || !claims.EmailVerified {
		core.Forbidden(w, "email address must be verified before uploading")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxBytes)

	if err := r.ParseMultipartForm(h.upload.MaxBytes); err != nil {
		core.JSONError(w, core.InvalidUploadError("file too large or not multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		core.JSONError(w, core.InvalidUploadError("missing file field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !h.allowedType(contentType) {
		core.JSONError(w, core.InvalidUploadError(
			"unsupported file type, expected PDF, JPEG or PNG",
		))
		return
	}

	inv, err := h.service.Ingest(
		r.Context(), userID, header.Filename, contentType, file,
	)
	if err != nil {
		h.writeIngestError(w, err)
		return
	}

	core.Created(w, invoice.ToInvoiceResponse(inv))
}

func (h *Handler) allowedType(contentType string) bool {
	for _, t := range h.upload.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

func (h *Handler) writeIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTokensExhausted):
		core.JSONError(w, core.TokensExhaustedError())
	case errors.Is(err, core.ErrMalformedOcrField):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrOcrFailure):
		core.JSONError(w, core.OcrFailureError())
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "subscription is not active")
	case errors.Is(err, core.ErrNotFound):
		core.Forbidden(w, "no subscription for this account")
	default:
		core.InternalServerError(w, err)
	}
}
