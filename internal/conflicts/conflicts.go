// Package conflicts detects overlapping active bookings on a court.
package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/codr1/Courtly/internal/clock"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
)

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// share any instant. Touching endpoints do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Detector checks a court's PENDING, CONFIRMED and BLOCKED bookings.
type Detector struct {
	queries dbgen.Querier
}

func NewDetector(queries dbgen.Querier) *Detector {
	return &Detector{queries: queries}
}

// HasConflict reports whether an active booking on courtID overlaps
// [start, end). excludeID, when non-empty, is left out of the comparison so
// an edited booking does not conflict with itself.
func (d *Detector) HasConflict(ctx context.Context, courtID string, start, end time.Time, excludeID string) (bool, error) {
	return HasConflict(ctx, d.queries, courtID, start, end, excludeID)
}

// HasConflict is Detector.HasConflict over an explicit querier, typically one
// bound to the caller's transaction.
func HasConflict(ctx context.Context, q dbgen.Querier, courtID string, start, end time.Time, excludeID string) (bool, error) {
	n, err := q.CountOverlappingBookings(ctx, dbgen.CountOverlappingBookingsParams{
		CourtID:   courtID,
		ExcludeID: excludeID,
		StartTime: clock.ToMillis(start),
		EndTime:   clock.ToMillis(end),
	})
	if err != nil {
		return false, fmt.Errorf("check conflicts on court %s: %w", courtID, err)
	}
	return n > 0, nil
}
