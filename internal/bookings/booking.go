package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/clock"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
	"github.com/codr1/Courtly/internal/money"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusBlocked   Status = "BLOCKED"
)

// Valid reports whether s is a known booking status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusBlocked:
		return true
	}
	return false
}

// Active reports whether a booking in status s holds its time slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusBlocked
}

type Booking struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	CourtID    string      `json:"courtId"`
	StartTime  time.Time   `json:"startTime"`
	EndTime    time.Time   `json:"endTime"`
	TotalPrice money.Cents `json:"totalPrice"`
	Notes      *string     `json:"notes"`
	Status     Status      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// FromRow converts a stored booking.
func FromRow(row dbgen.Booking) Booking {
	b := Booking{
		ID:         row.ID,
		UserID:     row.UserID,
		CourtID:    row.CourtID,
		StartTime:  clock.FromMillis(row.StartTime),
		EndTime:    clock.FromMillis(row.EndTime),
		TotalPrice: money.Cents(row.TotalPriceCents),
		Status:     Status(row.Status),
		CreatedAt:  clock.FromMillis(row.CreatedAt),
		UpdatedAt:  clock.FromMillis(row.UpdatedAt),
	}
	if row.Notes.Valid {
		notes := row.Notes.String
		b.Notes = &notes
	}
	return b
}

func fromRows(rows []dbgen.Booking) []Booking {
	out := make([]Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out
}

// Load reads a booking through q, which may be bound to a transaction.
func Load(ctx context.Context, q dbgen.Querier, id string) (Booking, error) {
	row, err := q.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Booking{}, apperr.ErrBookingNotFound
		}
		return Booking{}, fmt.Errorf("load booking %s: %w", id, err)
	}
	return FromRow(row), nil
}

// Actor is the user performing an operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// CanAccess reports whether the actor may view or act on b as owner or admin.
func (a Actor) CanAccess(b Booking) bool {
	return a.IsAdmin || (a.UserID != "" && a.UserID == b.UserID)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
