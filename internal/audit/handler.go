// handler.go

package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkraiem/facture-saas/internal/core"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/audit-logs", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
	})
}

type EntryResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Details   *string   `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", defaultPageSize),
		UserID:   r.URL.Query().Get("user_id"),
		Action:   r.URL.Query().Get("action"),
	}

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			core.BadRequest(w, "invalid from date")
			return
		}
		params.From = &t
	}

	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			core.BadRequest(w, "invalid to date")
			return
		}
		params.To = &t
	}

	entries, total, err := h.repo.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, EntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		})
	}

	core.Paginated(w, responses, params.Page, params.PageSize, total)
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
