package payments

import (
	"context"

	"github.com/codr1/Courtly/internal/money"
)

// CheckoutRequest describes one booking to charge.
type CheckoutRequest struct {
	BookingID   string
	UserID      string
	ProductName string
	Description string
	Amount      money.Cents
	Currency    string
	SuccessURL  string
	CancelURL   string
}

type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"sessionUrl"`
}

type EventKind string

const (
	EventCheckoutCompleted EventKind = "checkout_completed"
	EventPaymentFailed     EventKind = "payment_failed"
	EventOther             EventKind = "other"
)

// Event is a verified gateway notification reduced to what reconciliation
// needs. BookingID is the correlation id attached at checkout creation.
type Event struct {
	Kind      EventKind
	Type      string
	BookingID string
	PaymentID string
}

// Gateway is the external payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	// ParseWebhook verifies the signature and decodes the event.
	ParseWebhook(payload []byte, signature string) (Event, error)
}
