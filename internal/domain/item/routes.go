package item

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the item router
func (h *Handler) Routes(identity func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(identity)

	r.Post("/", h.Create)
	r.Get("/", h.ListByOwner)
	r.Get("/search", h.Search)
	r.Get("/{itemId}", h.GetByID)
	r.Patch("/{itemId}", h.Update)
	r.Delete("/{itemId}", h.Delete)
	r.Post("/{itemId}/comment", h.CreateComment)

	return r
}
