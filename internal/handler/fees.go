package handler

import (
	"net/http"

	"github.com/benjamibono/siam-may-sub000/internal/domain"
)

// FeesHandler serves the public fee catalog.
type FeesHandler struct{}

// NewFeesHandler creates a new FeesHandler.
func NewFeesHandler() *FeesHandler {
	return &FeesHandler{}
}

// List handles GET /api/fees.
func (h *FeesHandler) List(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, domain.AvailableFees())
}
