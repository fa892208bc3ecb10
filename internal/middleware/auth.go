package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/smartway/smartway-backend/pkg/utils"
)

// UserIDHeader carries the authenticated user id set by the API gateway.
// The gateway terminates the OTP/session flow; this service only trusts
// the header and loads the identity behind it.
const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "user_id"

// Auth rejects requests without an authenticated identity and puts the
// user id on the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" || !utils.IsValidUUID(userID) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "unauthorized",
				"message": "missing or invalid user identity",
			})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id from the context. Empty when
// the request did not pass through Auth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
