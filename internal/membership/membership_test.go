package membership

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/clock"
	"github.com/codr1/Courtly/internal/testutil"
)

func TestIsActive(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	later := now.Add(time.Millisecond)
	earlier := now.Add(-time.Millisecond)

	tests := []struct {
		name      string
		status    Status
		expiresAt *time.Time
		want      bool
	}{
		{name: "non member", status: NonMember, want: false},
		{name: "member without expiry", status: Member, want: true},
		{name: "expiry exactly now", status: Member, expiresAt: &now, want: true},
		{name: "expiry in future", status: Member, expiresAt: &later, want: true},
		{name: "expired one instant ago", status: Member, expiresAt: &earlier, want: false},
		{name: "non member with future expiry", status: NonMember, expiresAt: &later, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActive(tt.status, tt.expiresAt, now); got != tt.want {
				t.Fatalf("IsActive: got %v want %v", got, tt.want)
			}
		})
	}
}

func TestResolverExpiryBoundary(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	expiry := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := testutil.CreateUser(t, database, testutil.UserOptions{
		MembershipStatus:    string(Member),
		MembershipExpiresAt: &expiry,
	})

	clk := clock.NewMock(expiry)
	resolver := NewResolver(database.Queries, clk)

	active, err := resolver.IsActive(ctx, user.ID)
	if err != nil {
		t.Fatalf("is active: %v", err)
	}
	if !active {
		t.Fatalf("membership expiring exactly now should be active")
	}

	clk.Advance(time.Millisecond)
	active, err = resolver.IsActive(ctx, user.ID)
	if err != nil {
		t.Fatalf("is active: %v", err)
	}
	if active {
		t.Fatalf("membership should be inactive one instant after expiry")
	}
}

func TestResolverUnknownUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	resolver := NewResolver(database.Queries, nil)

	_, err := resolver.Snapshot(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrUserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}
