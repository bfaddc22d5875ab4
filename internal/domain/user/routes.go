package user

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the user router. User administration does not require the
// identity header.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{userId}", h.GetByID)
	r.Patch("/{userId}", h.Update)
	r.Delete("/{userId}", h.Delete)

	return r
}
