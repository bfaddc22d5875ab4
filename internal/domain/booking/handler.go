package booking

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sharekit/sharekit-api/internal/middleware"
	"github.com/sharekit/sharekit-api/internal/pkg/response"
	"github.com/sharekit/sharekit-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings
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

	bookerID := middleware.GetUserID(r.Context())
	resp, err := h.service.Create(r.Context(), bookerID, req)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.Created(w, resp)
}

// Decide handles PATCH /bookings/{bookingId}?approved=
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	bookingID, err := parseID(chi.URLParam(r, "bookingId"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		response.BadRequest(w, "Query parameter approved must be true or false")
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	resp, err := h.service.Decide(r.Context(), bookingID, ownerID, approved)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.OK(w, resp)
}

// Cancel handles PATCH /bookings/{bookingId}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID, err := parseID(chi.URLParam(r, "bookingId"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	bookerID := middleware.GetUserID(r.Context())
	resp, err := h.service.Cancel(r.Context(), bookingID, bookerID)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.OK(w, resp)
}

// GetByID handles GET /bookings/{bookingId}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	bookingID, err := parseID(chi.URLParam(r, "bookingId"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	requesterID := middleware.GetUserID(r.Context())
	resp, err := h.service.GetByID(r.Context(), bookingID, requesterID)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.OK(w, resp)
}

// ListByBooker handles GET /bookings?state=&from=&size=
func (h *Handler) ListByBooker(w http.ResponseWriter, r *http.Request) {
	from, size, err := parsePaging(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	bookerID := middleware.GetUserID(r.Context())
	resp, err := h.service.ListByBooker(r.Context(), bookerID, r.URL.Query().Get("state"), from, size)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.WithMeta(w, resp, response.Meta{From: from, Size: size, Count: len(resp)})
}

// ListByOwner handles GET /bookings/owner?state=&from=&size=
func (h *Handler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	from, size, err := parsePaging(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	resp, err := h.service.ListByOwner(r.Context(), ownerID, r.URL.Query().Get("state"), from, size)
	if err != nil {
		response.RenderError(w, err)
		return
	}

	response.WithMeta(w, resp, response.Meta{From: from, Size: size, Count: len(resp)})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// parsePaging reads from/size query parameters with defaults 0/10. Range
// checks happen in the service so fakes can exercise them too.
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
