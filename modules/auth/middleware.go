package auth

import (
	"net/http"
	"strings"

	"github.com/streamvault/streamvault/pkg/cookie"
	"github.com/streamvault/streamvault/pkg/httpx"
)

// Cookie names shared by the handlers and the middleware.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Middleware is the auth gate. It extracts the access token from the
// accessToken cookie or the Authorization header, verifies it, confirms
// the subject still exists and attaches the sanitized identity to the
// request context. It never mutates state, and every failure path
// produces the same 401 so callers cannot tell which check rejected
// them.
func Middleware(svc *Service, cookies *cookie.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, cookies)
			if token == "" {
				httpx.Fail(w, httpx.Unauthorized("unauthorized request"))
				return
			}

			identity, err := svc.VerifyAccess(r.Context(), token)
			if err != nil {
				httpx.Fail(w, httpx.Unauthorized("unauthorized request"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func extractToken(r *http.Request, cookies *cookie.Manager) string {
	if v, err := cookies.Get(r, AccessTokenCookie); err == nil && v != "" {
		return v
	}

	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
