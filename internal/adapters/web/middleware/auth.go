package middleware

import (
	"net/http"
	"strings"

	"github.com/avidal-labs/lanwarden/internal/core/ports"
)

// SessionCookie is the cookie carrying the session token. API clients may
// send the same token as a Bearer header instead.
const SessionCookie = "auth_token"

// SessionAuth rejects requests without a valid session token. When the
// auth service reports disabled (no credentials configured) every request
// passes through.
func SessionAuth(authService ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			token := TokenFromRequest(r)
			if token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if err := authService.ValidateToken(r.Context(), token); err != nil {
				// Expired cookie tokens get cleared so browsers stop
				// resending them.
				http.SetCookie(w, &http.Cookie{
					Name:   SessionCookie,
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest extracts the session token from the cookie or the
// Authorization header. Empty string means no token present.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
