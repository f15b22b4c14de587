package email

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/clock"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
	"github.com/codr1/Courtly/internal/money"
)

const bookingEmailTimeout = 5 * time.Second

type NotifierOptions struct {
	AppName  string
	Currency string
}

// Notifier emails players about booking state changes. A nil Notifier, or
// one without a sender, does nothing.
type Notifier struct {
	sender  Sender
	queries dbgen.Querier
	opts    NotifierOptions
	wg      sync.WaitGroup
}

func NewNotifier(sender Sender, queries dbgen.Querier, opts NotifierOptions) *Notifier {
	return &Notifier{sender: sender, queries: queries, opts: opts}
}

// BookingConfirmed tells the booking owner their payment went through.
func (n *Notifier) BookingConfirmed(ctx context.Context, bookingID string) {
	n.notify(ctx, bookingID, "confirmation", func(details BookingDetails) Message {
		return BuildBookingConfirmation(details)
	})
}

// BookingCancelled tells the booking owner their booking was cancelled.
func (n *Notifier) BookingCancelled(ctx context.Context, bookingID, reason string) {
	n.notify(ctx, bookingID, "cancellation", func(details BookingDetails) Message {
		return BuildBookingCancellation(details, reason)
	})
}

// Wait blocks until in-flight sends finish.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

func (n *Notifier) notify(ctx context.Context, bookingID, kind string, build func(BookingDetails) Message) {
	if n == nil || n.sender == nil || n.queries == nil {
		return
	}
	logger := log.Ctx(ctx).With().Str("booking_id", bookingID).Str("email_kind", kind).Logger()

	recipient, details, err := n.loadDetails(ctx, bookingID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load booking for email")
		return
	}
	if recipient == "" {
		return
	}
	msg := build(details)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		sendCtx, cancel := newEmailContext(ctx, bookingEmailTimeout)
		defer cancel()
		if err := n.sender.Send(sendCtx, recipient, msg.Subject, msg.Body); err != nil {
			logger.Error().Err(err).Msg("Failed to send booking email")
			return
		}
		logger.Debug().Msg("Booking email sent")
	}()
}

func (n *Notifier) loadDetails(ctx context.Context, bookingID string) (string, BookingDetails, error) {
	booking, err := n.queries.GetBooking(ctx, bookingID)
	if err != nil {
		return "", BookingDetails{}, fmt.Errorf("load booking: %w", err)
	}
	user, err := n.queries.GetUserByID(ctx, booking.UserID)
	if err != nil {
		return "", BookingDetails{}, fmt.Errorf("load user %s: %w", booking.UserID, err)
	}
	court, err := n.queries.GetCourt(ctx, booking.CourtID)
	if err != nil {
		return "", BookingDetails{}, fmt.Errorf("load court %s: %w", booking.CourtID, err)
	}

	return strings.TrimSpace(user.Email), BookingDetails{
		AppName:   n.opts.AppName,
		BookingID: booking.ID,
		UserName:  user.Name,
		CourtName: court.Name,
		Start:     clock.FromMillis(booking.StartTime),
		End:       clock.FromMillis(booking.EndTime),
		Total:     money.Cents(booking.TotalPriceCents),
		Currency:  n.opts.Currency,
	}, nil
}
