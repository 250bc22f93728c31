package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository handles database operations for payment records. It
// also implements the fact-fetch contracts the membership engine relies
// on: qualifying-payment lookup, insurance lookup, current-month lookup.
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, user_id, amount_cents, concept, method, paid_on, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.AmountCents, &p.Concept, &p.Method,
		&p.PaidOn, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new payment record. Payments are immutable afterwards.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, amount_cents, concept, method, paid_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.UserID, p.AmountCents, p.Concept, p.Method, p.PaidOn, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// FindByID returns a payment by ID, or nil when absent.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return p, nil
}

// ListByUser returns a user's payments, most recent first.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY paid_on DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// Delete removes a payment by ID (amendments are delete+recreate).
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

// LastQualifyingConcept returns the concept of the user's most recent
// payment excluding Matrícula and Seguro médico, or ConceptUnknown when
// none exists. This is the exclusion contract CanEnrollClassType expects.
func (r *PaymentRepository) LastQualifyingConcept(ctx context.Context, userID string) (domain.Concept, error) {
	query := `
		SELECT concept FROM payments
		WHERE user_id = $1 AND concept NOT IN ($2, $3)
		ORDER BY paid_on DESC, created_at DESC LIMIT 1
	`
	var concept string
	err := r.db.QueryRow(ctx, query, userID,
		string(domain.ConceptEnrollmentFee), string(domain.ConceptInsurance)).Scan(&concept)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.ConceptUnknown, nil
		}
		return domain.ConceptUnknown, fmt.Errorf("failed to find qualifying payment: %w", err)
	}
	return domain.ParseConcept(concept), nil
}

// LastInsuranceDate returns the date of the user's most recent Seguro
// médico payment, or nil when none exists.
func (r *PaymentRepository) LastInsuranceDate(ctx context.Context, userID string) (*time.Time, error) {
	query := `
		SELECT paid_on FROM payments
		WHERE user_id = $1 AND concept = $2
		ORDER BY paid_on DESC LIMIT 1
	`
	var paidOn time.Time
	err := r.db.QueryRow(ctx, query, userID, string(domain.ConceptInsurance)).Scan(&paidOn)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find insurance payment: %w", err)
	}
	return &paidOn, nil
}

// HasPaymentInMonth reports whether any payment row for the user falls in
// [year-month-01, year-next_month-01).
func (r *PaymentRepository) HasPaymentInMonth(ctx context.Context, userID string, year int, month time.Month) (bool, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM payments WHERE user_id = $1 AND paid_on >= $2 AND paid_on < $3)`,
		userID, monthStart, nextMonth).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check current month payment: %w", err)
	}
	return exists, nil
}
