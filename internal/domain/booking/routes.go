package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the booking router
func (h *Handler) Routes(identity func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All booking routes act on behalf of the header-identified user
	r.Use(identity)

	r.Post("/", h.Create)
	r.Get("/", h.ListByBooker)
	r.Get("/owner", h.ListByOwner)
	r.Get("/{bookingId}", h.GetByID)
	r.Patch("/{bookingId}", h.Decide)
	r.Patch("/{bookingId}/cancel", h.Cancel)

	return r
}
