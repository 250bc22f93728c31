package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Concept is the closed vocabulary of payment concepts. The strings are
// the gym's Spanish labels and are stored verbatim.
type Concept string

const (
	ConceptMonthlyMuayThai Concept = "Cuota mensual Muay Thai"
	ConceptMonthlyMMA      Concept = "Cuota mensual MMA"
	ConceptMonthlyCombined Concept = "Cuota mensual Muay Thai + MMA"
	ConceptEnrollmentFee   Concept = "Matrícula"
	ConceptInsurance       Concept = "Seguro médico"
	// ConceptUnknown is the fallback for unrecognized external values.
	ConceptUnknown Concept = ""
)

// ParseConcept maps external text onto a Concept, falling back to
// ConceptUnknown instead of erroring.
func ParseConcept(raw string) Concept {
	switch Concept(raw) {
	case ConceptMonthlyMuayThai, ConceptMonthlyMMA, ConceptMonthlyCombined,
		ConceptEnrollmentFee, ConceptInsurance:
		return Concept(raw)
	}
	return ConceptUnknown
}

// Grants reports whether a payment with this concept gives access to
// classes of the given discipline. Matrícula and Seguro médico grant no
// class access by themselves; unknown concepts grant nothing.
func (c Concept) Grants(discipline string) bool {
	switch c {
	case ConceptMonthlyCombined:
		return true
	case ConceptMonthlyMuayThai:
		return strings.EqualFold(discipline, DisciplineMuayThai)
	case ConceptMonthlyMMA:
		return strings.EqualFold(discipline, DisciplineMMA)
	default:
		return false
	}
}

// Disciplines taught at the gym.
const (
	DisciplineMuayThai = "Muay Thai"
	DisciplineMMA      = "MMA"
)

// KnownDiscipline reports whether the name is one of the taught disciplines.
func KnownDiscipline(name string) bool {
	return strings.EqualFold(name, DisciplineMuayThai) || strings.EqualFold(name, DisciplineMMA)
}

// Payment methods accepted at the desk. Online is reserved for payments
// recorded by the checkout webhook.
const (
	MethodCash   = "Efectivo"
	MethodCard   = "Tarjeta"
	MethodBizum  = "Bizum"
	MethodOnline = "Online"
)

// KnownMethod reports whether the payment method is accepted.
func KnownMethod(m string) bool {
	switch m {
	case MethodCash, MethodCard, MethodBizum, MethodOnline:
		return true
	}
	return false
}

// Payment is an immutable payment record. Amendments are delete+recreate.
type Payment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AmountCents int64     `json:"amountCents"`
	Concept     Concept   `json:"concept"`
	Method      string    `json:"method"`
	PaidOn      time.Time `json:"paidOn"` // calendar date, no time component
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreatePaymentRequest is the validated input for recording a payment.
// Concept and Method are re-checked against the closed vocabularies in the
// service layer so unrecognized values degrade with a clear error.
type CreatePaymentRequest struct {
	UserID      string `json:"userId" validate:"required,uuid4"`
	AmountCents int64  `json:"amountCents" validate:"required,gt=0"`
	Concept     string `json:"concept" validate:"required"`
	Method      string `json:"method" validate:"required"`
	PaidOn      string `json:"paidOn" validate:"required,datetime=2006-01-02"`
}

// CheckoutRequest is the input for creating an online payment link.
type CheckoutRequest struct {
	Concept string `json:"concept" validate:"required"`
}

// CheckoutResponse returns the URL to redirect the member to for payment.
type CheckoutResponse struct {
	PaymentURL string `json:"paymentUrl"`
	OrderID    string `json:"orderId"`
}

// Fee is a catalog entry: the price the gym charges for a concept.
type Fee struct {
	Concept    Concept `json:"concept"`
	PriceCents int64   `json:"priceCents"`
	Recurring  bool    `json:"recurring"`
}

// AvailableFees returns the gym's fee catalog.
func AvailableFees() []Fee {
	return []Fee{
		{Concept: ConceptMonthlyMuayThai, PriceCents: 3500, Recurring: true},
		{Concept: ConceptMonthlyMMA, PriceCents: 3500, Recurring: true},
		{Concept: ConceptMonthlyCombined, PriceCents: 5000, Recurring: true},
		{Concept: ConceptEnrollmentFee, PriceCents: 3000, Recurring: false},
		{Concept: ConceptInsurance, PriceCents: 4500, Recurring: false},
	}
}

// FeeFor returns the catalog entry for a concept, or false when the
// concept is not sold.
func FeeFor(concept Concept) (Fee, bool) {
	for _, f := range AvailableFees() {
		if f.Concept == concept {
			return f, true
		}
	}
	return Fee{}, false
}

// NewPaymentID generates a new UUID for a payment.
func NewPaymentID() string {
	return uuid.New().String()
}
