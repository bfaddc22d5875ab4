package item

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sharekit/sharekit-api/internal/middleware"
	"github.com/sharekit/sharekit-api/internal/pkg/response"
	"github.com/sharekit/sharekit-api/internal/pkg/validator"
)

// Handler handles item HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates an item handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /items
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	resp, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.Created(w, resp)
}

// Update handles PATCH /items/{itemId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseID(chi.URLParam(r, "itemId"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	resp, err := h.service.Update(r.Context(), ownerID, itemID, req)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.OK(w, resp)
}

// GetByID handles GET /items/{itemId}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseID(chi.URLParam(r, "itemId"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	requesterID := middleware.GetUserID(r.Context())
	resp, err := h.service.GetByID(r.Context(), requesterID, itemID)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.OK(w, resp)
}

// ListByOwner handles GET /items?from=&size=
func (h *Handler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	from, size, err := parsePaging(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	resp, err := h.service.ListByOwner(r.Context(), ownerID, from, size)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.WithMeta(w, resp, response.Meta{From: from, Size: size, Count: len(resp)})
}

// Search handles GET /items/search?text=&from=&size=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	from, size, err := parsePaging(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Search(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.WithMeta(w, resp, response.Meta{From: from, Size: size, Count: len(resp)})
}

// Delete handles DELETE /items/{itemId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseID(chi.URLParam(r, "itemId"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	if err := h.service.Delete(r.Context(), ownerID, itemID); err != nil {
		response.RenderError(w, err)
		return
	}

	response.NoContent(w)
}

// CreateComment handles POST /items/{itemId}/comment
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseID(chi.URLParam(r, "itemId"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	var req CommentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	authorID := middleware.GetUserID(r.Context())
	resp, err := h.service.CreateComment(r.Context(), authorID, itemID, req)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.Created(w, resp)
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func parsePaging(r *http.Request) (int, int, error) {
	from := 0
	size := 10
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = strconv.Atoi(raw); err != nil {
			return 0, 0, err
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			return 0, 0, err
		}
	}
	return from, size, nil
}
