package handler

import (
	"net/http"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/contextkeys"
	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"github.com/benjamibono/siam-may-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

// ClassHandler handles class and enrollment HTTP endpoints.
type ClassHandler struct {
	classes *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classes *service.ClassService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// List handles GET /api/classes.
func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(contextkeys.UserID).(string)

	classes, err := h.classes.List(r.Context(), userID, time.Now())
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, classes)
}

// Get handles GET /api/classes/{id}.
func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID, _ := r.Context().Value(contextkeys.UserID).(string)

	class, err := h.classes.GetByID(r.Context(), id, userID, time.Now())
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, class)
}

// Create handles POST /api/classes (staff).
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClassRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	class, err := h.classes.Create(r.Context(), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, class)
}

// Update handles PUT /api/classes/{id} (staff).
func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateClassRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	class, err := h.classes.Update(r.Context(), id, &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, class)
}

// Delete handles DELETE /api/classes/{id} (staff).
func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.classes.Delete(r.Context(), id); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Enroll handles POST /api/classes/{id}/enroll.
func (h *ClassHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.classes.Enroll(r.Context(), id, userID, time.Now()); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Unenroll handles DELETE /api/classes/{id}/enroll.
func (h *ClassHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.classes.Unenroll(r.Context(), id, userID); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Roster handles GET /api/classes/{id}/roster (staff).
func (h *ClassHandler) Roster(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	roster, err := h.classes.Roster(r.Context(), id)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, roster)
}
