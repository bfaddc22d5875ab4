package user

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sharekit/sharekit-api/internal/pkg/response"
	"github.com/sharekit/sharekit-api/internal/pkg/validator"
)

// Handler handles user HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /users
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

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.Created(w, resp)
}

// GetByID handles GET /users/{userId}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	resp, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.OK(w, resp)
}

// List handles GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.Context())
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.OK(w, resp)
}

// Update handles PATCH /users/{userId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
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

	resp, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.OK(w, resp)
}

// Delete handles DELETE /users/{userId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.RenderError(w, err)
		return
	}

	response.NoContent(w)
}
