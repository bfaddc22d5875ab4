package request

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the item request router
func (h *Handler) Routes(identity func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(identity)

	r.Post("/", h.Create)
	r.Get("/", h.ListOwn)
	r.Get("/all", h.ListOthers)
	r.Get("/{requestId}", h.GetByID)

	return r
}
