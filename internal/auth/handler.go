package auth

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	svc    *Service
	cookie CookieConfig
}

func NewHandler(svc *Service, cookie CookieConfig) *Handler {
	return &Handler{svc: svc, cookie: cookie}
}

// Refresh expects refresh_token in Cookie or JSON body. Returns new tokens and sets httpOnly cookies.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	refreshToken := RefreshTokenFromRequest(r, body.RefreshToken)
	if refreshToken == "" {
		http.Error(w, "refresh_token required", http.StatusBadRequest)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), refreshToken)
	if err != nil {
		if err == ErrInvalidRefreshToken {
			http.Error(w, "invalid or expired refresh token", http.StatusUnauthorized)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	SetSessionCookies(w, h.cookie, pair.SessionToken, pair.RefreshToken, pair.ExpiresIn, pair.RefreshExpiresIn)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pair)
}

// Logout revokes the current session (and its linked refresh token) and clears session cookies.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionIDFromContext(r.Context())
	if sessionID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.svc.Logout(r.Context(), sessionID); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	ClearSessionCookies(w, h.cookie)
	w.WriteHeader(http.StatusNoContent)
}
