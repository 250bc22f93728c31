package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/service"
)

// CronHandler exposes the scheduled jobs for external cron triggers,
// protected by a shared secret.
type CronHandler struct {
	scheduler *service.Scheduler
	secret    string
}

// NewCronHandler creates a new CronHandler.
func NewCronHandler(scheduler *service.Scheduler, secret string) *CronHandler {
	return &CronHandler{scheduler: scheduler, secret: secret}
}

// RefreshMemberships handles POST /api/cron/membership.
func (h *CronHandler) RefreshMemberships(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	changed, err := h.scheduler.RefreshMemberships(r.Context(), time.Now())
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"changed": changed})
}

// ResetClasses handles POST /api/cron/class-reset.
func (h *CronHandler) ResetClasses(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	reset, err := h.scheduler.ResetElapsedSessions(r.Context(), time.Now())
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"reset": reset})
}

func (h *CronHandler) authorized(r *http.Request) bool {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.secret)) == 1
}
