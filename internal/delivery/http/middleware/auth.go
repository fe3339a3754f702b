package middleware

import (
	"context"
	"net/http"
	"strings"

	h "techconnect/internal/delivery/http/helpers"
	"techconnect/internal/domain"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

// SetUser returns a context with the authenticated user set. Used by auth middleware.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user from the context, if present.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}

// SetToken returns a context with the raw bearer token set.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the raw bearer token from the context, if present.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok
}

// bearerToken extracts the token from the Authorization header. Empty string
// when the header is missing or malformed.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// RequireAuth returns a wrapper that authenticates the Bearer token and sets
// the resolved local user in the request context. Every failure maps to the
// same 401; the cause stays in the server logs.
func RequireAuth(auth domain.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing or malformed authorization header")
				return
			}
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication failed")
				return
			}
			ctx := SetUser(r.Context(), user)
			ctx = SetToken(ctx, token)
			next(w, r.WithContext(ctx))
		}
	}
}

// OptionalAuth authenticates the Bearer token when one is present but lets
// anonymous requests through. A token that fails authentication is treated as
// absent.
func OptionalAuth(auth domain.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token != "" {
				if user, err := auth.Authenticate(r.Context(), token); err == nil {
					ctx := SetUser(r.Context(), user)
					ctx = SetToken(ctx, token)
					r = r.WithContext(ctx)
				}
			}
			next(w, r)
		}
	}
}
