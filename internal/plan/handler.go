// handler.go

package plan

import (
	"encoding/json"
	"errors"
	"net/http"

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
	r.Route("/plans", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListActive)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/plans", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListAll)
		r.Post("/", h.Create)
		r.Get("/{planID}", h.Get)
		r.Put("/{planID}/status", h.UpdateStatus)
	})
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListActivePlans(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPlanResponseList(plans))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListAllPlans(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPlanResponseList(plans))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.CreatePlan(r.Context(), actorID, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("plan name"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToPlanResponse(p))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")

	p, err := h.service.GetPlan(r.Context(), planID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "plan")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPlanResponse(p))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	planID := chi.URLParam(r, "planID")

	var req UpdatePlanStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.SetPlanStatus(
		r.Context(),
		actorID,
		planID,
		*req.IsActive,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "plan")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPlanResponse(p))
}
