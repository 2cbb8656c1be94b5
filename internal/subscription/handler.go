// handler.go

package subscription

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/subscription", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.GetMine)
		r.Post("/checkout", h.Checkout)
		r.Put("/status", h.Toggle)
		r.Get("/ledger", h.ListLedger)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/subscriptions", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/{userID}", h.AdminGet)
	})
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sub, err := h.service.GetMySubscription(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "subscription")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSubscriptionResponse(sub))
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sub, err := h.service.ProcessPayment(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrCardExpired) {
			core.BadRequest(w, "card expired")
			return
		}
		if errors.Is(err, ErrPlanInactive) {
			core.BadRequest(w, "plan is not available")
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "plan")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSubscriptionResponse(sub))
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sub, err := h.service.Toggle(r.Context(), userID, *req.IsActive)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "subscription")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSubscriptionResponse(sub))
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	sub, err := h.service.AdminGetSubscription(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "subscription")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSubscriptionResponse(sub))
}

func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	page := parseIntQuery(r, "page", 1)
	pageSize := parseIntQuery(r, "page_size", 20)

	entries, total, err := h.service.ListLedger(
		r.Context(), userID, page, pageSize,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToLedgerResponseList(entries), page, pageSize, total)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
