// handler.go

package company

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkraiem/facture-saas/internal/core"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Companies back the filter pickers on the invoice list and analytics
// screens, so every authenticated user may read them.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/companies", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{companyID}", h.Get)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", defaultPageSize),
		Search:   r.URL.Query().Get("search"),
		Type:     r.URL.Query().Get("type"),
	}

	if params.Type != "" && params.Type != TypeClient &&
		params.Type != TypeSupplier && params.Type != TypeBoth {
		core.BadRequest(w, "invalid company type")
		return
	}

	companies, total, err := h.repo.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToCompanyResponseList(companies),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	c, err := h.repo.GetByID(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "company")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCompanyResponse(c))
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
