// AngelaMos | 2026
// handler.go

package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/logoforge/internal/core"
)

// maxWebhookBody matches Stripe's documented payload ceiling.
const maxWebhookBody = int64(65536)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/billing", func(r chi.Router) {
		r.Get("/packages", h.ListPackages)
		r.Post("/webhook", h.Webhook)
	})
}

func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.service.Packages())
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		core.BadRequest(w, "unable to read request body")
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")

	if err := h.service.HandleEvent(r.Context(), payload, sigHeader); err != nil {
		if errors.Is(err, ErrBadSignature) {
			core.BadRequest(w, "invalid webhook signature")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]bool{"received": true})
}
