package handler

import (
	"net/http"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/contextkeys"
	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"github.com/benjamibono/siam-may-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles member management endpoints (admin only) plus the
// member's own profile status.
type UserHandler struct {
	auth       *service.AuthService
	membership *service.MembershipService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *service.AuthService, membership *service.MembershipService) *UserHandler {
	return &UserHandler{auth: auth, membership: membership}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	user, err := h.auth.CreateUser(r.Context(), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, user)
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.auth.GetUserByID(r.Context(), id)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.auth.DeleteUser(r.Context(), id); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdateMedical handles PUT /api/users/{id}/medical.
func (h *UserHandler) UpdateMedical(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateMedicalRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	if err := h.auth.SetMedicalNotes(r.Context(), id, &req); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetMedical handles GET /api/users/{id}/medical.
func (h *UserHandler) GetMedical(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	notes, err := h.auth.GetMedicalNotes(r.Context(), id)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]string{"medicalNotes": notes})
}

// ProfileStatus handles GET /api/profile/status for the authenticated member.
func (h *UserHandler) ProfileStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	report, err := h.membership.Report(r.Context(), userID, time.Now())
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, report)
}
