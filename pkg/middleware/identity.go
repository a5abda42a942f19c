package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avasilyev/fundbot/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the caller's external identity
	UserIDKey ContextKey = "user_id"
)

// Identity resolves the caller's chat-platform identity from the
// X-User-ID header into the request context. The gateway in front of this
// service is expected to have authenticated the identity already; here it
// is only parsed and attached.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			response.Unauthorized(w, "X-User-ID header required")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			response.Unauthorized(w, "Invalid X-User-ID header")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCoordinator gates a route to coordinator identities. The
// coordinator set comes from configuration; the core services never
// perform this check themselves.
func RequireCoordinator(coordinators map[int64]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				response.Unauthorized(w, "X-User-ID header required")
				return
			}
			if !coordinators[userID] {
				response.Forbidden(w, "Coordinator privileges required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID extracts the caller's identity from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
