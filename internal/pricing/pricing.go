// Package pricing quotes the price of a court booking.
package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/clock"
	"github.com/codr1/Courtly/internal/courts"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
	"github.com/codr1/Courtly/internal/membership"
	"github.com/codr1/Courtly/internal/money"
)

type Tariff string

const (
	Standard Tariff = "STANDARD"
	Member   Tariff = "MEMBER"
)

// Label is the human-readable tariff name shown to players.
func (t Tariff) Label() string {
	if t == Member {
		return "Member rate"
	}
	return "Standard rate"
}

// durationMultipliers holds the package rates, keyed by duration in
// hundredths of an hour. A hit multiplies the hourly rate; a miss falls back
// to rate x duration.
var durationMultipliers = map[Tariff]map[int64]decimal.Decimal{
	Standard: {
		100: decimal.NewFromInt(1),
		150: decimal.RequireFromString("1.3"),
		200: decimal.NewFromInt(2),
	},
	Member: {
		100: decimal.NewFromInt(1),
		150: decimal.RequireFromString("1.25"),
		200: decimal.RequireFromString("1.875"),
	},
}

var millisPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

type Quote struct {
	CourtID       string      `json:"courtId"`
	StartTime     time.Time   `json:"startTime"`
	EndTime       time.Time   `json:"endTime"`
	DurationHours float64     `json:"durationHours"`
	HourlyRate    money.Cents `json:"hourlyRate"`
	TotalPrice    money.Cents `json:"totalPrice"`
	TariffType    Tariff      `json:"tariffType"`
	TariffLabel   string      `json:"tariffLabel"`
}

// SelectTariff picks the member rate when the membership is active at now
// and the court defines a positive member rate, else the standard rate.
// A nil snapshot is an anonymous caller.
func SelectTariff(court courts.Court, snap *membership.Snapshot, now time.Time) (Tariff, money.Cents) {
	if snap != nil && snap.ActiveAt(now) {
		if rate, ok := court.MemberRate(); ok {
			return Member, rate
		}
	}
	return Standard, court.PricePerHour
}

// TotalForDuration applies the duration table for tariff, falling back to
// the linear price. The result is rounded to cents.
func TotalForDuration(rate money.Cents, hours decimal.Decimal, tariff Tariff) money.Cents {
	key := hours.Round(2).Shift(2).IntPart()
	if multiplier, ok := durationMultipliers[tariff][key]; ok {
		return money.FromDecimal(rate.Decimal().Mul(multiplier))
	}
	return money.FromDecimal(rate.Decimal().Mul(hours))
}

// Compute quotes a booking of court over [start, end). It performs no I/O.
func Compute(court courts.Court, snap *membership.Snapshot, start, end, now time.Time) (Quote, error) {
	if !start.Before(end) {
		return Quote{}, apperr.ErrInvalidTimeRange
	}
	hours := decimal.NewFromInt(end.Sub(start).Milliseconds()).Div(millisPerHour)
	if !hours.IsPositive() {
		return Quote{}, apperr.ErrInvalidDuration
	}

	tariff, rate := SelectTariff(court, snap, now)
	return Quote{
		CourtID:       court.ID,
		StartTime:     start.UTC(),
		EndTime:       end.UTC(),
		DurationHours: hours.InexactFloat64(),
		HourlyRate:    rate,
		TotalPrice:    TotalForDuration(rate, hours, tariff),
		TariffType:    tariff,
		TariffLabel:   tariff.Label(),
	}, nil
}

// Engine resolves courts and memberships from storage and quotes prices.
type Engine struct {
	queries dbgen.Querier
	clock   clock.Clock
}

func NewEngine(queries dbgen.Querier, clk clock.Clock) *Engine {
	return &Engine{queries: queries, clock: clock.OrReal(clk)}
}

// Quote prices a booking for userID, or anonymously when userID is empty.
func (e *Engine) Quote(ctx context.Context, courtID, userID string, start, end time.Time) (Quote, error) {
	return QuoteWith(ctx, e.queries, e.clock.Now(), courtID, userID, start, end)
}

// QuoteWith is Quote over an explicit querier and instant, for callers that
// price inside their own transaction.
func QuoteWith(ctx context.Context, q dbgen.Querier, now time.Time, courtID, userID string, start, end time.Time) (Quote, error) {
	if !start.Before(end) {
		return Quote{}, apperr.ErrInvalidTimeRange
	}
	court, err := courts.Load(ctx, q, courtID)
	if err != nil {
		return Quote{}, err
	}
	var snap *membership.Snapshot
	if userID != "" {
		s, err := membership.Load(ctx, q, userID)
		if err != nil {
			return Quote{}, err
		}
		snap = &s
	}
	return Compute(court, snap, start, end, now)
}
