package users

import (
	"encoding/json"
	"net/http"

	"github.com/sopatech/wavedesk/internal/auth"
)

type Handler struct {
	svc     Service
	authSvc *auth.Service
	cookie  auth.CookieConfig
}

func NewHandler(svc Service, authSvc *auth.Service, cookie auth.CookieConfig) *Handler {
	return &Handler{svc: svc, authSvc: authSvc, cookie: cookie}
}

// Signup creates an account and issues a session directly (first-party web app, no code exchange).
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Signup(r.Context(), body.Email, body.Password, body.FullName)
	if err != nil {
		switch {
		case err == ErrEmailTaken:
			http.Error(w, "email already registered", http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	pair, err := h.authSvc.NewSession(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	auth.SetSessionCookies(w, h.cookie, pair.SessionToken, pair.RefreshToken, pair.ExpiresIn, pair.RefreshExpiresIn)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"user":   user,
		"tokens": pair,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if err == ErrInvalidCreds {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pair, err := h.authSvc.NewSession(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	auth.SetSessionCookies(w, h.cookie, pair.SessionToken, pair.RefreshToken, pair.ExpiresIn, pair.RefreshExpiresIn)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user":   user,
		"tokens": pair,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.svc.GetByID(r.Context(), userID)
	if err != nil {
		if err == ErrUserNotFound {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.authSvc.RevokeAllSessionsForUser(r.Context(), userID); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.svc.DeleteAccount(r.Context(), userID); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	auth.ClearSessionCookies(w, h.cookie)
	w.WriteHeader(http.StatusNoContent)
}
