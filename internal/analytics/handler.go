// handler.go

package analytics

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/middleware"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/analytics", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Summary)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/analytics", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.AdminSummary)
	})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	filters, err := parseFilters(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	summary, err := h.service.Summary(r.Context(), userID, filters)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, summary)
}

// AdminSummary aggregates across every tenant unless a user_id filter
// narrows it down.
func (h *Handler) AdminSummary(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	userID := r.URL.Query().Get("user_id")

	summary, err := h.service.Summary(r.Context(), userID, filters)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, summary)
}

func parseFilters(r *http.Request) (Filters, error) {
	q := r.URL.Query()

	filters := Filters{}

	if raw := q.Get("company_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				filters.CompanyIDs = append(filters.CompanyIDs, id)
			}
		}
	}

	switch role := q.Get("role"); role {
	case "", RoleSupplier, RoleBuyer:
		filters.Role = role
	default:
		return filters, errors.New("invalid role")
	}

	if from := q.Get("date_from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return filters, errors.New("invalid date_from")
		}
		filters.DateFrom = &t
	}

	if to := q.Get("date_to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return filters, errors.New("invalid date_to")
		}
		filters.DateTo = &t
	}

	if raw := q.Get("min_total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, errors.New("invalid min_total")
		}
		filters.MinTotal = &v
	}

	if raw := q.Get("max_total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, errors.New("invalid max_total")
		}
		filters.MaxTotal = &v
	}

	return filters, nil
}
