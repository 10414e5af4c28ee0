package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthMiddleware handles Bearer token authentication against a single API token.
// An empty token disables authentication.
type AuthMiddleware struct {
	token string
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{
		token: token,
	}
}

// Enabled reports whether requests must carry a token.
func (m *AuthMiddleware) Enabled() bool {
	return m.token != ""
}

// Authenticate validates the Bearer token before calling next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	if !m.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			respondUnauthorized(w, "invalid authorization header format")
			return
		}

		token := parts[1]
		if token == "" {
			respondUnauthorized(w, "missing token")
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.token)) != 1 {
			respondUnauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"INVALID_TOKEN","message":"` + message + `"}}`))
}
