// Package membership decides whether a user qualifies for member pricing.
package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/clock"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
)

type Status string

const (
	Member    Status = "MEMBER"
	NonMember Status = "NON_MEMBER"
)

// Valid reports whether s is a known membership status.
func (s Status) Valid() bool {
	return s == Member || s == NonMember
}

// Snapshot is a user's membership state as read at one point in time.
type Snapshot struct {
	UserID    string
	Status    Status
	ExpiresAt *time.Time
}

// IsActive reports whether a membership counts at now. An expiry equal to
// now is still active.
func IsActive(status Status, expiresAt *time.Time, now time.Time) bool {
	if status != Member {
		return false
	}
	if expiresAt == nil {
		return true
	}
	return !expiresAt.Before(now)
}

// ActiveAt reports whether the snapshot qualifies for member pricing at now.
func (s Snapshot) ActiveAt(now time.Time) bool {
	return IsActive(s.Status, s.ExpiresAt, now)
}

// FromUser builds a snapshot from a stored user row.
func FromUser(u dbgen.User) Snapshot {
	snap := Snapshot{UserID: u.ID, Status: Status(u.MembershipStatus)}
	if u.MembershipExpiresAt.Valid {
		exp := clock.FromMillis(u.MembershipExpiresAt.Int64)
		snap.ExpiresAt = &exp
	}
	return snap
}

// Load reads the membership snapshot for userID through q, which may be
// bound to a transaction.
func Load(ctx context.Context, q dbgen.Querier, userID string) (Snapshot, error) {
	u, err := q.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, apperr.ErrUserNotFound
		}
		return Snapshot{}, fmt.Errorf("load membership for user %s: %w", userID, err)
	}
	return FromUser(u), nil
}

// Resolver answers membership questions against the current time.
type Resolver struct {
	queries dbgen.Querier
	clock   clock.Clock
}

func NewResolver(queries dbgen.Querier, clk clock.Clock) *Resolver {
	return &Resolver{queries: queries, clock: clock.OrReal(clk)}
}

// Snapshot loads the membership state of userID.
func (r *Resolver) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	return Load(ctx, r.queries, userID)
}

// IsActive reports whether userID currently has an active membership.
func (r *Resolver) IsActive(ctx context.Context, userID string) (bool, error) {
	snap, err := r.Snapshot(ctx, userID)
	if err != nil {
		return false, err
	}
	return snap.ActiveAt(r.clock.Now()), nil
}
