package payment

// Gateway is the interface for online payment providers. The gym records
// most payments at the desk; the gateway covers members paying their
// monthly fee from the web app.
type Gateway interface {
	// CreatePaymentLink creates a checkout link for a fee. amountCents is
	// the catalog price; concept travels as metadata and comes back in
	// the webhook.
	CreatePaymentLink(userID, concept, orderID string, amountCents int64) (string, error)
	// VerifySignature verifies the webhook signature (provider specific).
	VerifySignature(payload []byte, signature string) bool
}

// Webhook transaction statuses.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// MockGateway is a provider-less implementation used in development and
// tests: every link "succeeds" and every signature verifies.
type MockGateway struct{}

// NewMockGateway creates a MockGateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) CreatePaymentLink(userID, concept, orderID string, amountCents int64) (string, error) {
	return "https://pay.siammay.example/checkout?order_id=" + orderID, nil
}

func (g *MockGateway) VerifySignature(payload []byte, signature string) bool {
	return true
}
