package middleware

import (
	"net/http"
	"strings"

	"github.com/sspedowski/justice-document-pip-sub000/internal/auth"
	"github.com/sspedowski/justice-document-pip-sub000/internal/httputil"
)

// Auth validates the bearer token on every request and stores the caller's
// user ID in the request context. A nil verifier disables authentication
// entirely; only the dev environment runs without one.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.Subject))
		})
	}
}
