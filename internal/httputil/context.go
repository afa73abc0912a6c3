package httputil

import (
	"context"
	"net/http"
)

// Unexported key type keeps request-context values collision-free.
type contextKey string

const userIDKey contextKey = "userID"

// WithUserID returns a copy of r whose context carries the authenticated
// user's ID. Set by the auth middleware after token verification.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID reads the authenticated user ID from the request context. It is
// empty when auth is disabled or the middleware never ran.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
