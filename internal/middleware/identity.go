package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sharekit/sharekit-api/internal/pkg/response"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// UserHeader carries the id of the acting user, set by the API gateway.
const UserHeader = "X-Sharer-User-Id"

// Identity returns middleware that extracts the acting user id from the
// X-Sharer-User-Id header. The gateway authenticates the caller; this service
// trusts the header and only checks its shape.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserHeader)
			if raw == "" {
				response.BadRequest(w, "Missing "+UserHeader+" header")
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				response.BadRequest(w, "Invalid "+UserHeader+" header")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the acting user id from context
func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(UserIDKey).(int64); ok {
		return id
	}
	return 0
}
