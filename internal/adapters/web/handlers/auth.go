package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/avidal-labs/lanwarden/internal/adapters/web/auth"
	"github.com/avidal-labs/lanwarden/internal/adapters/web/middleware"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin issues a session token as both a cookie and a JSON field,
// so browsers and API clients share one endpoint.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.auth.Enabled() {
		writeJSON(w, http.StatusOK, map[string]interface{}{"auth_required": false})
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"auth_required": true,
		"token":         token,
	})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		h.auth.Logout(r.Context(), token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   middleware.SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
