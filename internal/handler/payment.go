package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/contextkeys"
	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"github.com/benjamibono/siam-may-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

// PaymentHandler handles payment HTTP endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create handles POST /api/payments (staff).
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	p, err := h.payments.Record(r.Context(), &req, time.Now())
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, p)
}

// Delete handles DELETE /api/payments/{id} (staff).
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.payments.Remove(r.Context(), id, time.Now()); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListMine handles GET /api/payments/mine for the authenticated member.
func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	payments, err := h.payments.ListByUser(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, payments)
}

// ListByUser handles GET /api/users/{id}/payments (staff).
func (h *PaymentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payments, err := h.payments.ListByUser(r.Context(), id)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, payments)
}

// Checkout handles POST /api/payments/checkout for the authenticated member.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.CheckoutRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp, err := h.payments.Checkout(r.Context(), userID, &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, resp)
}

// Webhook handles POST /api/payments/webhook from the payment provider.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}

	signature := r.Header.Get("X-Signature")
	if !h.payments.VerifyWebhookSignature(body, signature) {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}

	var ev service.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := h.payments.HandleWebhook(r.Context(), &ev, time.Now()); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"received": true})
}
