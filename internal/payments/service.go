// Package payments starts checkout for bookings and applies gateway events
// to payment and booking state.
package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/bookings"
	"github.com/codr1/Courtly/internal/clock"
	"github.com/codr1/Courtly/internal/courts"
	"github.com/codr1/Courtly/internal/db"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type Options struct {
	Currency string
	// SuccessURL and CancelURL may contain {booking_id}.
	SuccessURL string
	CancelURL  string
}

// Notifier hears about bookings confirmed by a completed payment.
type Notifier interface {
	BookingConfirmed(ctx context.Context, bookingID string)
}

type Service struct {
	db       *db.DB
	gateway  Gateway
	opts     Options
	clock    clock.Clock
	notifier Notifier
}

// NewService wires a payment service. A nil gateway disables checkout.
func NewService(database *db.DB, gateway Gateway, opts Options, clk clock.Clock) *Service {
	if opts.Currency == "" {
		opts.Currency = "eur"
	}
	return &Service{db: database, gateway: gateway, opts: opts, clock: clock.OrReal(clk)}
}

// WithNotifier sets the confirmation notifier and returns s.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// CreateCheckoutSession opens a gateway checkout for a booking owned by
// userID and records a pending payment carrying the session id.
func (s *Service) CreateCheckoutSession(ctx context.Context, bookingID, userID string) (CheckoutSession, error) {
	logger := log.Ctx(ctx).With().Str("booking_id", bookingID).Logger()

	if s.gateway == nil {
		return CheckoutSession{}, apperr.ErrPaymentGateway.WithMessage("Payments are not configured")
	}
	if strings.TrimSpace(bookingID) == "" {
		return CheckoutSession{}, apperr.ErrInvalidInput.WithMessage("bookingId is required")
	}

	b, err := bookings.Load(ctx, s.db.Queries, bookingID)
	if err != nil {
		return CheckoutSession{}, err
	}
	if b.UserID != userID {
		return CheckoutSession{}, apperr.ErrForbidden.WithMessage("Not authorized")
	}
	switch b.Status {
	case bookings.StatusCancelled, bookings.StatusBlocked:
		return CheckoutSession{}, apperr.ErrBookingNotPayable
	case bookings.StatusConfirmed:
		return CheckoutSession{}, apperr.ErrAlreadyPaid
	}

	existing, err := s.db.Queries.GetPaymentByBookingID(ctx, bookingID)
	switch {
	case err == nil && existing.Status == StatusCompleted:
		return CheckoutSession{}, apperr.ErrAlreadyPaid
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return CheckoutSession{}, fmt.Errorf("load payment for booking %s: %w", bookingID, err)
	}

	court, err := courts.Load(ctx, s.db.Queries, b.CourtID)
	if err != nil {
		return CheckoutSession{}, err
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		BookingID:   b.ID,
		UserID:      userID,
		ProductName: "Court Booking - " + court.Name,
		Description: b.StartTime.Format("2006-01-02 15:04") + " - " + b.EndTime.Format("15:04 MST"),
		Amount:      b.TotalPrice,
		Currency:    s.opts.Currency,
		SuccessURL:  expandURL(s.opts.SuccessURL, b.ID),
		CancelURL:   expandURL(s.opts.CancelURL, b.ID),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Payment gateway rejected checkout session")
		return CheckoutSession{}, apperr.ErrPaymentGateway.Wrap(err)
	}

	// The upsert leaves a completed payment alone, so a completion that lands
	// while the gateway call is in flight is not reverted to pending.
	now := s.clock.Now().UnixMilli()
	if _, err := s.db.Queries.UpsertPendingPayment(ctx, dbgen.UpsertPendingPaymentParams{
		ID:              uuid.NewString(),
		BookingID:       b.ID,
		UserID:          userID,
		AmountCents:     int64(b.TotalPrice),
		StripeSessionID: sql.NullString{String: sess.ID, Valid: sess.ID != ""},
		CreatedAt:       now,
		UpdatedAt:       now,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Warn().Str("session_id", sess.ID).Msg("Booking was paid while checkout was being created")
			return CheckoutSession{}, apperr.ErrAlreadyPaid
		}
		return CheckoutSession{}, fmt.Errorf("record pending payment: %w", err)
	}

	logger.Info().Str("session_id", sess.ID).Str("amount", b.TotalPrice.String()).Msg("Checkout session created")
	return sess, nil
}

// HandleWebhook verifies a raw gateway notification and reconciles it.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return apperr.ErrWebhook.WithMessage("Payments are not configured")
	}
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return apperr.ErrWebhook.WithMessage("Webhook Error: " + err.Error()).Wrap(err)
	}
	return s.Reconcile(ctx, event)
}

// Reconcile applies a gateway event. A completed checkout marks the payment
// completed and the booking CONFIRMED in one transaction; both writes set
// target states, so replaying the event is a no-op. Failed payments are only
// logged and other kinds are ignored.
func (s *Service) Reconcile(ctx context.Context, event Event) error {
	logger := log.Ctx(ctx).With().
		Str("event_type", event.Type).
		Str("booking_id", event.BookingID).
		Logger()

	switch event.Kind {
	case EventCheckoutCompleted:
		if event.BookingID == "" {
			logger.Warn().Msg("Completed checkout without booking correlation id")
			return nil
		}
		return s.completeCheckout(ctx, event, &logger)
	case EventPaymentFailed:
		logger.Warn().Str("payment_id", event.PaymentID).Msg("Payment failed")
		return nil
	default:
		logger.Debug().Msg("Unhandled payment event")
		return nil
	}
}

func (s *Service) completeCheckout(ctx context.Context, event Event, logger *zerolog.Logger) error {
	var (
		bookingStatus bookings.Status
		confirmed     bool
	)
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		if _, err := tx.Queries.GetPaymentByBookingID(ctx, event.BookingID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.ErrPaymentNotFound
			}
			return fmt.Errorf("load payment for booking %s: %w", event.BookingID, err)
		}
		b, err := bookings.Load(ctx, tx.Queries, event.BookingID)
		if err != nil {
			return err
		}
		bookingStatus = b.Status

		now := s.clock.Now().UnixMilli()
		if _, err := tx.Queries.CompletePayment(ctx, dbgen.CompletePaymentParams{
			BookingID:       event.BookingID,
			StripePaymentID: sql.NullString{String: event.PaymentID, Valid: event.PaymentID != ""},
			UpdatedAt:       now,
		}); err != nil {
			return fmt.Errorf("complete payment for booking %s: %w", event.BookingID, err)
		}

		if b.Status == bookings.StatusCancelled || b.Status == bookings.StatusConfirmed {
			return nil
		}
		if _, err := tx.Queries.UpdateBookingStatus(ctx, dbgen.UpdateBookingStatusParams{
			ID:        event.BookingID,
			Status:    string(bookings.StatusConfirmed),
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("confirm booking %s: %w", event.BookingID, err)
		}
		confirmed = true
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to reconcile completed checkout")
		return err
	}

	switch {
	case confirmed:
		logger.Info().Str("payment_id", event.PaymentID).Msg("Booking confirmed by payment")
		if s.notifier != nil {
			s.notifier.BookingConfirmed(ctx, event.BookingID)
		}
	case bookingStatus == bookings.StatusCancelled:
		logger.Warn().Str("payment_id", event.PaymentID).Msg("Payment completed for a cancelled booking")
	default:
		logger.Debug().Msg("Completed checkout already applied")
	}
	return nil
}

func expandURL(template, bookingID string) string {
	return strings.ReplaceAll(template, "{booking_id}", bookingID)
}
