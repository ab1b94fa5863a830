package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ephremw/gebeya/pkg/auth"
	"github.com/ephremw/gebeya/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// AccessCookie is the cookie the browser client stores the access token in.
// The Authorization header takes precedence when both are present.
const AccessCookie = "access_token"

// Auth validates the access token and stores the user ID and role in the
// request context. Tokens are read from the Authorization header (Bearer)
// or, for browser clients, from the access_token cookie.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		ctx = context.WithValue(ctx, roleKey{}, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MaybeAuth populates the context when a valid token is present but lets
// anonymous requests through. Used on endpoints with optional personalization.
func MaybeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if claims, err := auth.ValidateToken(token); err == nil {
				ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
				ctx = context.WithValue(ctx, roleKey{}, claims.Role)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(AccessCookie); err == nil {
		return c.Value
	}
	return ""
}

// UserIDFromCtx returns the authenticated user's ID from the request.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uint)
	return id, ok
}

// RoleFromCtx returns the authenticated user's role from the request.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok
}

// WithUser injects user identity into a request context. Test helper for
// exercising handlers behind Auth without minting tokens.
func WithUser(r *http.Request, userID uint, role string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey{}, userID)
	ctx = context.WithValue(ctx, roleKey{}, role)
	return r.WithContext(ctx)
}
