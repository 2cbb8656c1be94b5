// handler.go

package invoice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

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
	r.Route("/invoices", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{invoiceID}", h.Get)
		r.Put("/{invoiceID}", h.Update)
		r.Delete("/{invoiceID}", h.Delete)

		r.Post("/{invoiceID}/lines", h.AddLine)
		r.Put("/{invoiceID}/lines/{lineID}", h.UpdateLine)
		r.Delete("/{invoiceID}/lines/{lineID}", h.DeleteLine)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/invoices", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.AdminList)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	params, err := parseListParams(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	invoices, total, err := h.service.List(r.Context(), userID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToInvoiceResponseList(invoices),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	invoices, total, err := h.service.AdminList(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToInvoiceResponseList(invoices),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	invoiceID := chi.URLParam(r, "invoiceID")

	inv, err := h.service.Get(
		r.Context(), userID, middleware.IsAdmin(r.Context()), invoiceID,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "invoice")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToInvoiceResponse(inv))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	invoiceID := chi.URLParam(r, "invoiceID")

	var req UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	inv, err := h.service.Update(
		r.Context(), userID, middleware.IsAdmin(r.Context()), invoiceID, req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "invoice")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToInvoiceResponse(inv))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	invoiceID := chi.URLParam(r, "invoiceID")

	err := h.service.Delete(
		r.Context(), userID, middleware.IsAdmin(r.Context()), invoiceID,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "invoice")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	invoiceID := chi.URLParam(r, "invoiceID")

	var req AddLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	line, err := h.service.AddLine(
		r.Context(), userID, middleware.IsAdmin(r.Context()), invoiceID, req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "invoice")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToLineResponse(line))
}

func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	invoiceID := chi.URLParam(r, "invoiceID")
	lineID := chi.URLParam(r, "lineID")

	var req UpdateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	line, err := h.service.UpdateLine(
		r.Context(),
		userID,
		middleware.IsAdmin(r.Context()),
		invoiceID,
		lineID,
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "invoice line")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToLineResponse(line))
}

func (h *Handler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	invoiceID := chi.URLParam(r, "invoiceID")
	lineID := chi.URLParam(r, "lineID")

	err := h.service.DeleteLine(
		r.Context(),
		userID,
		middleware.IsAdmin(r.Context()),
		invoiceID,
		lineID,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "invoice line")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func parseListParams(r *http.Request) (ListParams, error) {
	q := r.URL.Query()

	params := ListParams{
		Page:       parseIntQuery(r, "page", 1),
		PageSize:   parseIntQuery(r, "page_size", defaultPageSize),
		Search:     q.Get("search"),
		SupplierID: q.Get("supplier_id"),
		BuyerID:    q.Get("buyer_id"),
		SortBy:     q.Get("sort_by"),
		SortDesc:   q.Get("sort_dir") != "asc",
	}

	if from := q.Get("date_from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return params, errors.New("invalid date_from")
		}
		params.DateFrom = &t
	}

	if to := q.Get("date_to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return params, errors.New("invalid date_to")
		}
		params.DateTo = &t
	}

	if raw := q.Get("min_total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, errors.New("invalid min_total")
		}
		params.MinTotal = &v
	}

	if raw := q.Get("max_total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, errors.New("invalid max_total")
		}
		params.MaxTotal = &v
	}

	return params, nil
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
