package service

import (
	"context"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"github.com/benjamibono/siam-may-sub000/internal/repository"
	"github.com/benjamibono/siam-may-sub000/pkg/payment"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records and amends payment rows and runs an on-demand
// status recompute after every payment event.
type PaymentService struct {
	repo       *repository.PaymentRepository
	users      *repository.UserRepository
	membership *MembershipService
	gateway    payment.Gateway
	validate   *validator.Validate
	log        *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo *repository.PaymentRepository, users *repository.UserRepository, membership *MembershipService, gateway payment.Gateway, log *zap.Logger) *PaymentService {
	return &PaymentService{
		repo:       repo,
		users:      users,
		membership: membership,
		gateway:    gateway,
		validate:   validator.New(),
		log:        log,
	}
}

// Record creates a payment row entered by staff at the desk, then
// refreshes the member's status.
func (s *PaymentService) Record(ctx context.Context, req *domain.CreatePaymentRequest, now time.Time) (*domain.Payment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	concept := domain.ParseConcept(req.Concept)
	if concept == domain.ConceptUnknown {
		return nil, domain.ErrValidation("unrecognized payment concept")
	}
	if !domain.KnownMethod(req.Method) {
		return nil, domain.ErrValidation("unrecognized payment method")
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, domain.ErrInternal("failed to find user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user not found")
	}

	paidOn, err := time.Parse("2006-01-02", req.PaidOn)
	if err != nil {
		return nil, domain.ErrValidation("paidOn must be a YYYY-MM-DD date")
	}

	p := &domain.Payment{
		ID:          domain.NewPaymentID(),
		UserID:      req.UserID,
		AmountCents: req.AmountCents,
		Concept:     concept,
		Method:      req.Method,
		PaidOn:      paidOn,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, domain.ErrInternal("failed to create payment", err)
	}

	if err := s.membership.RefreshUser(ctx, req.UserID, now); err != nil {
		s.log.Error("status refresh after payment failed",
			zap.String("user", req.UserID), zap.Error(err))
	}
	return p, nil
}

// Remove deletes a payment row (staff only; amendments are
// delete+recreate) and refreshes the owner's status.
func (s *PaymentService) Remove(ctx context.Context, id string, now time.Time) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ErrInternal("failed to find payment", err)
	}
	if p == nil {
		return domain.ErrNotFound("payment not found")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.ErrInternal("failed to delete payment", err)
	}

	if err := s.membership.RefreshUser(ctx, p.UserID, now); err != nil {
		s.log.Error("status refresh after payment removal failed",
			zap.String("user", p.UserID), zap.Error(err))
	}
	return nil
}

// ListByUser returns a user's payments, most recent first.
func (s *PaymentService) ListByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	payments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to list payments", err)
	}
	return payments, nil
}

// Checkout creates an online payment link for a catalog fee.
func (s *PaymentService) Checkout(ctx context.Context, userID string, req *domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	fee, ok := domain.FeeFor(domain.ParseConcept(req.Concept))
	if !ok {
		return nil, domain.ErrBadRequest("unrecognized fee concept")
	}

	orderID := uuid.New().String()
	url, err := s.gateway.CreatePaymentLink(userID, string(fee.Concept), orderID, fee.PriceCents)
	if err != nil {
		return nil, domain.ErrInternal("failed to create payment link", err)
	}

	return &domain.CheckoutResponse{PaymentURL: url, OrderID: orderID}, nil
}

// WebhookEvent is the parsed provider notification.
type WebhookEvent struct {
	UserID      string `json:"userId"`
	Concept     string `json:"concept"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amountCents"`
}

// HandleWebhook records a successful online payment and refreshes the
// member's status. Non-success notifications are logged and dropped.
func (s *PaymentService) HandleWebhook(ctx context.Context, ev *WebhookEvent, now time.Time) error {
	if ev.Status != payment.StatusSuccess {
		s.log.Info("ignoring non-success payment notification",
			zap.String("order", ev.OrderID), zap.String("status", ev.Status))
		return nil
	}

	concept := domain.ParseConcept(ev.Concept)
	if concept == domain.ConceptUnknown {
		return domain.ErrBadRequest("unrecognized payment concept")
	}

	user, err := s.users.FindByID(ctx, ev.UserID)
	if err != nil {
		return domain.ErrInternal("failed to find user", err)
	}
	if user == nil {
		return domain.ErrNotFound("user not found")
	}

	p := &domain.Payment{
		ID:          domain.NewPaymentID(),
		UserID:      ev.UserID,
		AmountCents: ev.AmountCents,
		Concept:     concept,
		Method:      domain.MethodOnline,
		PaidOn:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return domain.ErrInternal("failed to create payment", err)
	}
	s.log.Info("online payment recorded",
		zap.String("user", ev.UserID), zap.String("concept", string(concept)),
		zap.String("order", ev.OrderID))

	if err := s.membership.RefreshUser(ctx, ev.UserID, now); err != nil {
		s.log.Error("status refresh after webhook failed",
			zap.String("user", ev.UserID), zap.Error(err))
	}
	return nil
}

// VerifyWebhookSignature delegates to the gateway.
func (s *PaymentService) VerifyWebhookSignature(payload []byte, signature string) bool {
	return s.gateway.VerifySignature(payload, signature)
}
