package request

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sharekit/sharekit-api/internal/middleware"
	"github.com/sharekit/sharekit-api/internal/pkg/apperror"
	"github.com/sharekit/sharekit-api/internal/pkg/response"
	"github.com/sharekit/sharekit-api/internal/pkg/validator"
)

// UserChecker verifies that a user id is known
type UserChecker interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// Store is the request data access the handler needs, satisfied by Repository
type Store interface {
	Create(ctx context.Context, req *ItemRequest) error
	GetByID(ctx context.Context, id int64) (*ItemRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]ItemRequest, error)
	ListOthers(ctx context.Context, requesterID int64, limit, offset int) ([]ItemRequest, error)
	ItemsByRequest(ctx context.Context, requestID int64) ([]ItemAnswer, error)
}

// Handler handles item request HTTP requests
type Handler struct {
	repo  Store
	users UserChecker
}

// NewHandler creates an item request handler
func NewHandler(repo Store, users UserChecker) *Handler {
	return &Handler{repo: repo, users: users}
}

// Create handles POST /requests
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

	requesterID := middleware.GetUserID(r.Context())
	if !h.knownUser(w, r, requesterID) {
		return
	}

	itemRequest := &ItemRequest{Description: req.Description, RequesterID: requesterID}
	if err := h.repo.Create(r.Context(), itemRequest); err != nil {
		response.RenderError(w, err)
		return
	}

	response.Created(w, itemRequest.ToResponse(nil))
}

// ListOwn handles GET /requests
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())
	if !h.knownUser(w, r, requesterID) {
		return
	}

	requests, err := h.repo.ListByRequester(r.Context(), requesterID)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	resp, err := h.withAnswers(r.Context(), requests)
	if err != nil {
		response.RenderError(w, err)
		return
	}
	response.OK(w, resp)
}

// ListOthers handles GET /requests/all?from=&size=
func (h *Handler) ListOthers(w http.ResponseWriter, r *http.Request) {
	from := 0
	size := 10
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = strconv.Atoi(raw); err != nil {
			response.BadRequest(w, "Invalid from parameter")
			return
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			response.BadRequest(w, "Invalid size parameter")
			return
		}
	}
	if from < 0 || size <= 0 {
		response.BadRequest(w, "from must not be negative and size must be positive")
		return
	}

	requesterID := middleware.GetUserID(r.Context())
	if !h.knownUser(w, r, requesterID) {
		return
	}

	requests, err := h.repo.ListOthers(r.Context(), requesterID, size, from)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	resp, err := h.withAnswers(r.Context(), requests)
	if err != nil {
		response.RenderError(w, err)
		return
	}
	response.WithMeta(w, resp, response.Meta{From: from, Size: size, Count: len(resp)})
}

// GetByID handles GET /requests/{requestId}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.ParseInt(chi.URLParam(r, "requestId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	requesterID := middleware.GetUserID(r.Context())
	if !h.knownUser(w, r, requesterID) {
		return
	}

	itemRequest, err := h.repo.GetByID(r.Context(), requestID)
	if err != nil {
		response.RenderError(w, err)
		return
	}
	if itemRequest == nil {
		response.RenderError(w, apperror.NotFound("Request %d not found", requestID))
		return
	}

	answers, err := h.repo.ItemsByRequest(r.Context(), requestID)
	if err != nil {
		response.RenderError(w, err)
		return
	}
	response.OK(w, itemRequest.ToResponse(answers))
}

func (h *Handler) knownUser(w http.ResponseWriter, r *http.Request, userID int64) bool {
	exists, err := h.users.Exists(r.Context(), userID)
	if err != nil {
		response.RenderError(w, err)
		return false
	}
	if !exists {
		response.RenderError(w, apperror.NotFound("User %d not found", userID))
		return false
	}
	return true
}

func (h *Handler) withAnswers(ctx context.Context, requests []ItemRequest) ([]*ItemRequestResponse, error) {
	responses := make([]*ItemRequestResponse, 0, len(requests))
	for i := range requests {
		answers, err := h.repo.ItemsByRequest(ctx, requests[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, requests[i].ToResponse(answers))
	}
	return responses, nil
}
