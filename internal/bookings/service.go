// Package bookings manages the booking lifecycle: creation, admin overrides,
// cancellation and deletion. Every check-and-write runs in one transaction,
// and the storage layer rejects overlapping active bookings on its own, so
// concurrent requests for the same slot cannot both succeed.
package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/clock"
	"github.com/codr1/Courtly/internal/conflicts"
	"github.com/codr1/Courtly/internal/courts"
	"github.com/codr1/Courtly/internal/db"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
	"github.com/codr1/Courtly/internal/membership"
	"github.com/codr1/Courtly/internal/pricing"
)

type CreateInput struct {
	UserID     string
	CourtID    string
	StartTime  time.Time
	EndTime    time.Time
	Notes      *string
	AdminBlock bool
}

// CreateForUserInput identifies the owner by exactly one of UserID or
// UserEmail. An empty Status means PENDING.
type CreateForUserInput struct {
	UserID    string
	UserEmail string
	CourtID   string
	StartTime time.Time
	EndTime   time.Time
	Notes     *string
	Status    Status
}

// UpdateInput carries an admin edit; nil fields keep their current value.
type UpdateInput struct {
	CourtID   *string
	StartTime *time.Time
	EndTime   *time.Time
	Notes     *string
	Status    *Status
}

// Notifier hears about cancellations after they commit.
type Notifier interface {
	BookingCancelled(ctx context.Context, bookingID, reason string)
}

type Service struct {
	db       *db.DB
	clock    clock.Clock
	notifier Notifier
}

func NewService(database *db.DB, clk clock.Clock) *Service {
	return &Service{db: database, clock: clock.OrReal(clk)}
}

// WithNotifier sets the cancellation notifier and returns s.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

func (s *Service) notifyCancelled(ctx context.Context, bookingID, reason string) {
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, bookingID, reason)
	}
}

// Create books a court for in.UserID. The booking starts PENDING, or
// BLOCKED for an admin block.
func (s *Service) Create(ctx context.Context, in CreateInput) (Booking, error) {
	status := StatusPending
	if in.AdminBlock {
		status = StatusBlocked
	}

	var created Booking
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		var err error
		created, err = s.createInTx(ctx, tx.Queries, in, status)
		return err
	})
	if err != nil {
		return Booking{}, err
	}

	log.Ctx(ctx).Info().
		Str("booking_id", created.ID).
		Str("court_id", created.CourtID).
		Str("user_id", created.UserID).
		Str("status", string(created.Status)).
		Msg("Booking created")
	return created, nil
}

func (s *Service) createInTx(ctx context.Context, q dbgen.Querier, in CreateInput, status Status) (Booking, error) {
	now := s.clock.Now()
	if !in.StartTime.Before(in.EndTime) {
		return Booking{}, apperr.ErrInvalidTimeRange
	}
	if in.StartTime.Before(now) {
		return Booking{}, apperr.ErrPastBooking
	}

	court, err := courts.Load(ctx, q, in.CourtID)
	if err != nil {
		return Booking{}, err
	}
	snap, err := membership.Load(ctx, q, in.UserID)
	if err != nil {
		return Booking{}, err
	}

	conflict, err := conflicts.HasConflict(ctx, q, court.ID, in.StartTime, in.EndTime, "")
	if err != nil {
		return Booking{}, err
	}
	if conflict {
		return Booking{}, apperr.ErrBookingConflict
	}

	quote, err := pricing.Compute(court, &snap, in.StartTime, in.EndTime, now)
	if err != nil {
		return Booking{}, err
	}

	row, err := q.CreateBooking(ctx, dbgen.CreateBookingParams{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		CourtID:         court.ID,
		StartTime:       clock.ToMillis(in.StartTime),
		EndTime:         clock.ToMillis(in.EndTime),
		TotalPriceCents: int64(quote.TotalPrice),
		Notes:           nullString(in.Notes),
		Status:          string(status),
		CreatedAt:       now.UnixMilli(),
		UpdatedAt:       now.UnixMilli(),
	})
	if err != nil {
		return Booking{}, storageError("create booking", err)
	}
	return FromRow(row), nil
}

// CreateForUser books on behalf of another user. When the requested status
// differs from what Create would assign, the status is rewritten in the same
// transaction.
func (s *Service) CreateForUser(ctx context.Context, in CreateForUserInput) (Booking, error) {
	userID := strings.TrimSpace(in.UserID)
	email := strings.ToLower(strings.TrimSpace(in.UserEmail))
	if (userID == "") == (email == "") {
		return Booking{}, apperr.ErrInvalidInput.WithMessage("Provide exactly one of userId or userEmail")
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() || status == StatusCancelled {
		return Booking{}, apperr.ErrInvalidInput.WithMessage("Status must be PENDING, CONFIRMED or BLOCKED")
	}

	var created Booking
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		owner, err := resolveUser(ctx, tx.Queries, userID, email)
		if err != nil {
			return err
		}

		initial := StatusPending
		if status == StatusBlocked {
			initial = StatusBlocked
		}
		created, err = s.createInTx(ctx, tx.Queries, CreateInput{
			UserID:    owner.ID,
			CourtID:   in.CourtID,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Notes:     in.Notes,
		}, initial)
		if err != nil {
			return err
		}

		if created.Status != status {
			if err := setStatus(ctx, tx.Queries, created.ID, status, s.clock.Now()); err != nil {
				return err
			}
			created.Status = status
		}
		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	log.Ctx(ctx).Info().
		Str("booking_id", created.ID).
		Str("user_id", created.UserID).
		Str("status", string(created.Status)).
		Msg("Booking created for user")
	return created, nil
}

func resolveUser(ctx context.Context, q dbgen.Querier, userID, email string) (dbgen.User, error) {
	var (
		user dbgen.User
		err  error
	)
	if userID != "" {
		user, err = q.GetUserByID(ctx, userID)
	} else {
		user, err = q.GetUserByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.User{}, apperr.ErrUserNotFound
		}
		return dbgen.User{}, fmt.Errorf("resolve booking owner: %w", err)
	}
	return user, nil
}

// Cancel moves a booking to CANCELLED. Owners may cancel only bookings that
// have not started; admins may cancel any. The price is kept.
func (s *Service) Cancel(ctx context.Context, bookingID string, actor Actor) (Booking, error) {
	var cancelled Booking
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		b, err := Load(ctx, tx.Queries, bookingID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(b) {
			return apperr.ErrForbidden.WithMessage("Not authorized to cancel this booking")
		}
		if b.Status == StatusCancelled {
			return apperr.ErrAlreadyCancelled
		}
		now := s.clock.Now()
		if b.StartTime.Before(now) && !actor.IsAdmin {
			return apperr.ErrPastBooking.WithMessage("Cannot cancel past bookings")
		}
		if err := setStatus(ctx, tx.Queries, b.ID, StatusCancelled, now); err != nil {
			return err
		}
		b.Status = StatusCancelled
		b.UpdatedAt = clock.FromMillis(now.UnixMilli())
		cancelled = b
		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	log.Ctx(ctx).Info().
		Str("booking_id", cancelled.ID).
		Str("actor_id", actor.UserID).
		Bool("admin", actor.IsAdmin).
		Msg("Booking cancelled")

	reason := ""
	if actor.UserID != cancelled.UserID {
		reason = "Cancelled by the club"
	}
	s.notifyCancelled(ctx, cancelled.ID, reason)
	return cancelled, nil
}

// UpdateAsAdmin merges in over the booking, then re-validates the range,
// re-checks conflicts excluding the booking itself and re-prices against the
// owner's current membership before persisting.
func (s *Service) UpdateAsAdmin(ctx context.Context, bookingID string, in UpdateInput) (Booking, error) {
	var updated Booking
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		b, err := Load(ctx, tx.Queries, bookingID)
		if err != nil {
			return err
		}

		if in.CourtID != nil {
			b.CourtID = *in.CourtID
		}
		if in.StartTime != nil {
			b.StartTime = *in.StartTime
		}
		if in.EndTime != nil {
			b.EndTime = *in.EndTime
		}
		if in.Notes != nil {
			b.Notes = in.Notes
		}
		if in.Status != nil {
			if !in.Status.Valid() {
				return apperr.ErrInvalidInput.WithMessage("Unknown booking status")
			}
			b.Status = *in.Status
		}

		if !b.StartTime.Before(b.EndTime) {
			return apperr.ErrInvalidTimeRange
		}

		court, err := courts.Load(ctx, tx.Queries, b.CourtID)
		if err != nil {
			return err
		}

		if b.Status.Active() {
			conflict, err := conflicts.HasConflict(ctx, tx.Queries, court.ID, b.StartTime, b.EndTime, b.ID)
			if err != nil {
				return err
			}
			if conflict {
				return apperr.ErrBookingConflict
			}
		}

		now := s.clock.Now()
		snap, err := membership.Load(ctx, tx.Queries, b.UserID)
		if err != nil {
			return err
		}
		quote, err := pricing.Compute(court, &snap, b.StartTime, b.EndTime, now)
		if err != nil {
			return err
		}

		row, err := tx.Queries.UpdateBooking(ctx, dbgen.UpdateBookingParams{
			ID:              b.ID,
			CourtID:         court.ID,
			StartTime:       clock.ToMillis(b.StartTime),
			EndTime:         clock.ToMillis(b.EndTime),
			Notes:           nullString(b.Notes),
			Status:          string(b.Status),
			TotalPriceCents: int64(quote.TotalPrice),
			UpdatedAt:       now.UnixMilli(),
		})
		if err != nil {
			return storageError("update booking", err)
		}
		updated = FromRow(row)
		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	log.Ctx(ctx).Info().
		Str("booking_id", updated.ID).
		Str("court_id", updated.CourtID).
		Str("status", string(updated.Status)).
		Str("total_price", updated.TotalPrice.String()).
		Msg("Booking updated by admin")
	return updated, nil
}

// DeleteAsAdmin removes a booking and its payment record together.
func (s *Service) DeleteAsAdmin(ctx context.Context, bookingID string) error {
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		if _, err := Load(ctx, tx.Queries, bookingID); err != nil {
			return err
		}
		if _, err := tx.Queries.DeletePaymentByBookingID(ctx, bookingID); err != nil {
			return fmt.Errorf("delete payment for booking %s: %w", bookingID, err)
		}
		if _, err := tx.Queries.DeleteBooking(ctx, bookingID); err != nil {
			return fmt.Errorf("delete booking %s: %w", bookingID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("booking_id", bookingID).Msg("Booking deleted by admin")
	return nil
}

// Get returns a booking visible to actor. Bookings of other users are
// reported as not found.
func (s *Service) Get(ctx context.Context, bookingID string, actor Actor) (Booking, error) {
	b, err := Load(ctx, s.db.Queries, bookingID)
	if err != nil {
		return Booking{}, err
	}
	if !actor.CanAccess(b) {
		return Booking{}, apperr.ErrBookingNotFound
	}
	return b, nil
}

// ListForUser returns a user's bookings, latest start first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Booking, error) {
	rows, err := s.db.Queries.ListUserBookings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for user %s: %w", userID, err)
	}
	return fromRows(rows), nil
}

// ListAll returns every booking, latest start first.
func (s *Service) ListAll(ctx context.Context) ([]Booking, error) {
	rows, err := s.db.Queries.ListAllBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return fromRows(rows), nil
}

// ListForCourt returns the court's active bookings in start order. With both
// bounds set, only bookings lying entirely inside [from, to] are returned.
func (s *Service) ListForCourt(ctx context.Context, courtID string, from, to *time.Time) ([]Booking, error) {
	if _, err := courts.Load(ctx, s.db.Queries, courtID); err != nil {
		return nil, err
	}

	var (
		rows []dbgen.Booking
		err  error
	)
	if from != nil && to != nil {
		rows, err = s.db.Queries.ListActiveCourtBookingsWithin(ctx, dbgen.ListActiveCourtBookingsWithinParams{
			CourtID:  courtID,
			FromTime: clock.ToMillis(*from),
			ToTime:   clock.ToMillis(*to),
		})
	} else {
		rows, err = s.db.Queries.ListActiveCourtBookings(ctx, courtID)
	}
	if err != nil {
		return nil, fmt.Errorf("list bookings for court %s: %w", courtID, err)
	}
	return fromRows(rows), nil
}

// ReleaseStalePending cancels PENDING bookings created more than ttl ago
// that have no completed payment, and returns how many were released.
func (s *Service) ReleaseStalePending(ctx context.Context, ttl time.Duration) (int, error) {
	logger := log.Ctx(ctx)
	now := s.clock.Now()

	stale, err := s.db.Queries.ListStalePendingBookings(ctx, now.Add(-ttl).UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("list stale pending bookings: %w", err)
	}

	released := 0
	for _, row := range stale {
		cancelled := false
		err := s.db.RunInTx(ctx, func(tx *db.DB) error {
			current, err := tx.Queries.GetBooking(ctx, row.ID)
			if err != nil {
				return err
			}
			// Paid or edited since the scan.
			if current.Status != string(StatusPending) {
				return nil
			}
			payment, err := tx.Queries.GetPaymentByBookingID(ctx, row.ID)
			if err == nil && payment.Status == "completed" {
				return nil
			}
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			if err := setStatus(ctx, tx.Queries, row.ID, StatusCancelled, now); err != nil {
				return err
			}
			cancelled = true
			return nil
		})
		if err != nil {
			logger.Error().Err(err).Str("booking_id", row.ID).Msg("Failed to release stale pending booking")
			continue
		}
		if cancelled {
			released++
			s.notifyCancelled(ctx, row.ID, "Payment was not received in time")
		}
	}

	if released > 0 {
		logger.Info().Int("released", released).Dur("ttl", ttl).Msg("Released stale pending bookings")
	}
	return released, nil
}

func setStatus(ctx context.Context, q dbgen.Querier, bookingID string, status Status, now time.Time) error {
	n, err := q.UpdateBookingStatus(ctx, dbgen.UpdateBookingStatusParams{
		ID:        bookingID,
		Status:    string(status),
		UpdatedAt: now.UnixMilli(),
	})
	if err != nil {
		return storageError("update booking status", err)
	}
	if n == 0 {
		return apperr.ErrBookingNotFound
	}
	return nil
}

// storageError maps an exclusion-constraint violation to BOOKING_CONFLICT.
func storageError(op string, err error) error {
	err = db.TranslateError(err)
	if errors.Is(err, db.ErrBookingOverlap) {
		return apperr.ErrBookingConflict.Wrap(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
