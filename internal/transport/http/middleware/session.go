package middleware

import (
	"context"
	"net/http"

	jwtinfra "github.com/agency-api/internal/infrastructure/jwt"
	"github.com/agency-api/internal/transport/http/cookie"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// SessionGate returns middleware guarding the authenticated app surface. It
// accepts the primary session cookie; when that is absent or invalid it falls
// back to the backup cookie and, on success, re-issues the primary before
// letting the request through. Requests with no usable token are redirected
// to loginPath with 303 so a POST never gets replayed against the login page.
func SessionGate(provider *jwtinfra.Provider, loginPath string, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(cookie.Session); err == nil {
				if claims, err := provider.Verify(c.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
					return
				}
			}
			if c, err := r.Cookie(cookie.SessionBackup); err == nil {
				if claims, err := provider.Verify(c.Value); err == nil {
					cookie.SetSession(w, c.Value, provider.Expiry(), secure)
					next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
					return
				}
			}
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
		})
	}
}

func withClaims(ctx context.Context, claims *jwtinfra.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// ClaimsFromContext extracts the verified session claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}
