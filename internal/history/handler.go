// AngelaMos | 2026
// handler.go

package history

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/logoforge/internal/core"
	"github.com/angelamos/logoforge/internal/middleware"
)

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
	r.Route("/history", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/claim", h.Claim)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	records, err := h.service.List(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRecordResponseList(records))
}

// Claim attaches recent demo generations to the caller's account.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	claimed, err := h.service.Claim(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ClaimResponse{Claimed: claimed})
}
