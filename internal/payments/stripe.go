package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const metadataBookingID = "bookingId"

var errWebhookSecretMissing = errors.New("webhook secret not configured")

// StripeGateway implements Gateway with Stripe Checkout.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.ProductName),
						Description: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(int64(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataBookingID, req.BookingID)
	params.AddMetadata("userId", req.UserID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create stripe checkout session: %w", err)
	}
	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (Event, error) {
	if g.webhookSecret == "" {
		return Event{}, errWebhookSecretMissing
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, err
	}

	out := Event{Kind: EventOther, Type: string(event.Type)}
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return Event{}, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Kind = EventCheckoutCompleted
		out.BookingID = sess.Metadata[metadataBookingID]
		if sess.PaymentIntent != nil {
			out.PaymentID = sess.PaymentIntent.ID
		}
	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return Event{}, fmt.Errorf("decode payment intent: %w", err)
		}
		out.Kind = EventPaymentFailed
		out.PaymentID = intent.ID
		out.BookingID = intent.Metadata[metadataBookingID]
	}
	return out, nil
}
