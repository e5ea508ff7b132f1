package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sopatech/wavedesk/internal/auth"
	"github.com/sopatech/wavedesk/internal/users"
)

type Handler struct {
	svc      Service
	usersSvc users.Service
}

func NewHandler(svc Service, usersSvc users.Service) *Handler {
	return &Handler{svc: svc, usersSvc: usersSvc}
}

// actor resolves the authenticated user for the request. Writes the error
// response itself and returns ok=false when the user cannot be resolved.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (users.User, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return users.User{}, false
	}
	user, err := h.usersSvc.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return users.User{}, false
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return users.User{}, false
	}
	return *user, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeOK wraps data in the standard success envelope.
func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{
		"success": true,
		"data":    data,
	})
}

// writeDenied writes a permission denial with its reason.
func writeDenied(w http.ResponseWriter, reason string) {
	writeJSON(w, http.StatusForbidden, map[string]any{
		"success": false,
		"message": reason,
	})
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	var denied *DeniedError
	switch {
	case errors.As(err, &denied):
		writeDenied(w, denied.Reason)
	case errors.Is(err, ErrSubmissionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"message": "Submission not found",
		})
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sub, err := h.svc.Create(r.Context(), actor, in)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, http.StatusCreated, sub)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	sub, err := h.svc.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, sub)
}

// List returns the submissions visible to the caller, plus the caller's role
// and scope so the frontend can render the right view.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	subs, err := h.svc.List(r.Context(), actor)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       subs,
		"userRole":   string(actor.Role),
		"canViewAll": actor.Role == users.RoleLabelManager,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sub, err := h.svc.Update(r.Context(), actor, r.PathValue("id"), in)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, sub)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Reject)
}

// decide handles the approve and reject endpoints, which share their shape:
// an optional review note in the body, then a status transition.
func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actor users.User, id, note string) (*Submission, error)) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var body struct {
		Note string `json:"note"`
	}
	if r.Body != nil {
		// note is optional; an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	sub, err := fn(r.Context(), actor, r.PathValue("id"), body.Note)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, sub)
}

func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actor users.User, id string) (*Submission, error)) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	sub, err := fn(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, sub)
}

func (h *Handler) Resubmit(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.Resubmit)
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.Publish)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.Cancel)
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.Activity(r.Context(), actor, r.PathValue("id"), limit)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, entries)
}

func (h *Handler) MyActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.MyActivity(r.Context(), actor, limit)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, entries)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Statistics(r.Context(), actor)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, stats)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	size, _ := strconv.Atoi(q.Get("size"))
	from, _ := strconv.Atoi(q.Get("from"))
	subs, err := h.svc.Search(r.Context(), actor, q.Get("q"), q.Get("status"), size, from)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, subs)
}

// Settings serves the label-wide configuration page. Manager only.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if res := CanAccessSystemSettings(actor); !res.Allowed {
		writeDenied(w, res.Reason)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{
		"releaseDateWindowHours": int(releaseDateWindow.Hours()),
		"recentSubmissionsLimit": recentSubmissionsLimit,
	})
}

// DebugPermissions reports the caller's effective permission gates. Manager only.
func (h *Handler) DebugPermissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if res := CanUseDebugTools(actor); !res.Allowed {
		writeDenied(w, res.Reason)
		return
	}
	writeOK(w, http.StatusOK, map[string]Result{
		"delete":         CanDelete(actor),
		"systemSettings": CanAccessSystemSettings(actor),
		"debugTools":     CanUseDebugTools(actor),
		"fullStatistics": CanViewFullStatistics(actor),
		"approveReject":  CanApproveRejectSubmission(actor),
		"publish":        CanPublishSubmission(actor),
	})
}
