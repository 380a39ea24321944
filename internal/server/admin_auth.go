package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sumpro/internal/store"
)

// authPrincipal records how an admin request was admitted. User is nil
// for the env bearer token, which is not tied to an account.
type authPrincipal struct {
	AuthType string
	User     *store.AuthUser
}

// isUser reports whether the principal is the account with the given
// email, compared case-insensitively.
func (p authPrincipal) isUser(email string) bool {
	return p.User != nil && strings.EqualFold(p.User.Email, strings.TrimSpace(email))
}

type principalContextKey struct{}

func withAuthPrincipal(ctx context.Context, principal authPrincipal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

func authPrincipalFromContext(ctx context.Context) (authPrincipal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(authPrincipal)
	return principal, ok
}

// requireAdmin admits requests carrying either the configured admin bearer
// token or a valid admin session cookie.
func (s *Server) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" && s.adminToken != "" {
			if subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) == 1 {
				ctx := withAuthPrincipal(r.Context(), authPrincipal{AuthType: authTypeBearer})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("invalid admin token")))
			return
		}

		if token := sessionTokenFromRequest(r); token != "" && s.authService != nil {
			user, err := s.authService.AuthenticateSessionToken(r.Context(), token, time.Now().UTC())
			if err != nil {
				s.writeStoreError(w, r, err)
				return
			}
			if user != nil {
				ctx := withAuthPrincipal(r.Context(), authPrincipal{AuthType: authTypeSession, User: user})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("authentication required")))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func sessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		return strings.ToLower(proto)
	}
	return "http"
}
