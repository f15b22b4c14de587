// Package courts is the court catalog: identity, active flag and hourly rates.
package courts

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
	"github.com/codr1/Courtly/internal/db"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
	"github.com/codr1/Courtly/internal/money"
)

type Court struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Description        *string      `json:"description"`
	PricePerHour       money.Cents  `json:"pricePerHour"`
	MemberPricePerHour *money.Cents `json:"memberPricePerHour"`
	IsActive           bool         `json:"isActive"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// MemberRate returns the member hourly rate when one is set and positive.
func (c Court) MemberRate() (money.Cents, bool) {
	if c.MemberPricePerHour == nil || *c.MemberPricePerHour <= 0 {
		return 0, false
	}
	return *c.MemberPricePerHour, true
}

// FromRow converts a stored court.
func FromRow(row dbgen.Court) Court {
	c := Court{
		ID:           row.ID,
		Name:         row.Name,
		PricePerHour: money.Cents(row.PricePerHourCents),
		IsActive:     row.IsActive,
		CreatedAt:    clock.FromMillis(row.CreatedAt),
		UpdatedAt:    clock.FromMillis(row.UpdatedAt),
	}
	if row.Description.Valid {
		desc := row.Description.String
		c.Description = &desc
	}
	if row.MemberPricePerHourCents.Valid {
		rate := money.Cents(row.MemberPricePerHourCents.Int64)
		c.MemberPricePerHour = &rate
	}
	return c
}

// Load reads a court through q, which may be bound to a transaction.
func Load(ctx context.Context, q dbgen.Querier, id string) (Court, error) {
	row, err := q.GetCourt(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Court{}, apperr.ErrCourtNotFound
		}
		return Court{}, fmt.Errorf("load court %s: %w", id, err)
	}
	return FromRow(row), nil
}

type CreateInput struct {
	Name               string
	Description        *string
	PricePerHour       money.Cents
	MemberPricePerHour *money.Cents
	IsActive           *bool
}

// UpdateInput carries a partial update; nil fields keep their current value.
type UpdateInput struct {
	Name               *string
	Description        *string
	PricePerHour       *money.Cents
	MemberPricePerHour *money.Cents
	IsActive           *bool
}

type Service struct {
	db    *db.DB
	clock clock.Clock
}

func NewService(database *db.DB, clk clock.Clock) *Service {
	return &Service{db: database, clock: clock.OrReal(clk)}
}

// List returns active courts ordered by name.
func (s *Service) List(ctx context.Context) ([]Court, error) {
	rows, err := s.db.Queries.ListActiveCourts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	out := make([]Court, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (Court, error) {
	return Load(ctx, s.db.Queries, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Court, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Court{}, apperr.ErrInvalidInput.WithMessage("Court name is required")
	}
	if in.PricePerHour <= 0 {
		return Court{}, apperr.ErrInvalidInput.WithMessage("Price per hour must be positive")
	}
	if in.MemberPricePerHour != nil && *in.MemberPricePerHour <= 0 {
		return Court{}, apperr.ErrInvalidInput.WithMessage("Member price per hour must be positive")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := s.clock.Now().UnixMilli()
	row, err := s.db.Queries.CreateCourt(ctx, dbgen.CreateCourtParams{
		ID:                      uuid.NewString(),
		Name:                    name,
		Description:             nullString(in.Description),
		PricePerHourCents:       int64(in.PricePerHour),
		MemberPricePerHourCents: nullCents(in.MemberPricePerHour),
		IsActive:                active,
		CreatedAt:               now,
		UpdatedAt:               now,
	})
	if err != nil {
		return Court{}, fmt.Errorf("create court: %w", err)
	}

	log.Ctx(ctx).Info().Str("court_id", row.ID).Str("name", row.Name).Msg("Court created")
	return FromRow(row), nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Court, error) {
	var updated Court
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		current, err := tx.Queries.GetCourt(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.ErrCourtNotFound
			}
			return fmt.Errorf("load court %s: %w", id, err)
		}

		params := dbgen.UpdateCourtParams{
			ID:                      id,
			Name:                    current.Name,
			Description:             current.Description,
			PricePerHourCents:       current.PricePerHourCents,
			MemberPricePerHourCents: current.MemberPricePerHourCents,
			IsActive:                current.IsActive,
			UpdatedAt:               s.clock.Now().UnixMilli(),
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperr.ErrInvalidInput.WithMessage("Court name is required")
			}
			params.Name = name
		}
		if in.Description != nil {
			params.Description = nullString(in.Description)
		}
		if in.PricePerHour != nil {
			if *in.PricePerHour <= 0 {
				return apperr.ErrInvalidInput.WithMessage("Price per hour must be positive")
			}
			params.PricePerHourCents = int64(*in.PricePerHour)
		}
		if in.MemberPricePerHour != nil {
			if *in.MemberPricePerHour <= 0 {
				return apperr.ErrInvalidInput.WithMessage("Member price per hour must be positive")
			}
			params.MemberPricePerHourCents = nullCents(in.MemberPricePerHour)
		}
		if in.IsActive != nil {
			params.IsActive = *in.IsActive
		}

		row, err := tx.Queries.UpdateCourt(ctx, params)
		if err != nil {
			return fmt.Errorf("update court %s: %w", id, err)
		}
		updated = FromRow(row)
		return nil
	})
	if err != nil {
		return Court{}, err
	}
	return updated, nil
}

// Delete removes a court together with its bookings and their payments in
// one transaction. Payments go first so no booking is left referenced.
func (s *Service) Delete(ctx context.Context, id string) error {
	logger := log.Ctx(ctx).With().Str("court_id", id).Logger()

	var paymentsDeleted, bookingsDeleted int64
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		if _, err := tx.Queries.GetCourt(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.ErrCourtNotFound
			}
			return fmt.Errorf("load court %s: %w", id, err)
		}

		var err error
		paymentsDeleted, err = tx.Queries.DeletePaymentsByCourt(ctx, id)
		if err != nil {
			return fmt.Errorf("delete payments for court %s: %w", id, err)
		}
		bookingsDeleted, err = tx.Queries.DeleteBookingsByCourt(ctx, id)
		if err != nil {
			return fmt.Errorf("delete bookings for court %s: %w", id, err)
		}
		if _, err := tx.Queries.DeleteCourt(ctx, id); err != nil {
			return fmt.Errorf("delete court %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().
		Int64("payments_deleted", paymentsDeleted).
		Int64("bookings_deleted", bookingsDeleted).
		Msg("Court deleted")
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullCents(c *money.Cents) sql.NullInt64 {
	if c == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*c), Valid: true}
}
