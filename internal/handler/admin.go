package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AdminHandler handles admin-only reporting endpoints.
type AdminHandler struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *pgxpool.Pool, log *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, log: log}
}

// GetStats handles GET /api/admin/stats.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var members, active, suspended, classes, enrollments int
	var monthCents int64

	if err := h.db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE role = 'user'").Scan(&members); err != nil {
		h.log.Error("failed to count members", zap.Error(err))
	}
	if err := h.db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE role = 'user' AND status = 'active'").Scan(&active); err != nil {
		h.log.Error("failed to count active members", zap.Error(err))
	}
	if err := h.db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE role = 'user' AND status = 'suspended'").Scan(&suspended); err != nil {
		h.log.Error("failed to count suspended members", zap.Error(err))
	}
	if err := h.db.QueryRow(ctx, "SELECT COUNT(*) FROM classes").Scan(&classes); err != nil {
		h.log.Error("failed to count classes", zap.Error(err))
	}
	if err := h.db.QueryRow(ctx, "SELECT COUNT(*) FROM class_enrollments").Scan(&enrollments); err != nil {
		h.log.Error("failed to count enrollments", zap.Error(err))
	}
	if err := h.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM payments
		WHERE paid_on >= date_trunc('month', CURRENT_DATE)
	`).Scan(&monthCents); err != nil {
		h.log.Error("failed to sum monthly revenue", zap.Error(err))
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"members":           members,
		"activeMembers":     active,
		"suspendedMembers":  suspended,
		"classes":           classes,
		"enrollments":       enrollments,
		"monthRevenueCents": monthCents,
	})
}
