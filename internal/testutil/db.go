package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codr1/Courtly/internal/db"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// UserOptions customizes CreateUser. Zero values pick defaults.
type UserOptions struct {
	Email               string
	Name                string
	Role                string
	MembershipStatus    string
	MembershipExpiresAt *time.Time
	PasswordHash        string
}

// CreateUser inserts a user row and returns it.
func CreateUser(t *testing.T, database *db.DB, opts UserOptions) dbgen.User {
	t.Helper()

	id := uuid.NewString()
	if opts.Email == "" {
		opts.Email = id + "@example.com"
	}
	if opts.Name == "" {
		opts.Name = "Test Player"
	}
	if opts.Role == "" {
		opts.Role = "PLAYER"
	}
	if opts.MembershipStatus == "" {
		opts.MembershipStatus = "NON_MEMBER"
	}
	if opts.PasswordHash == "" {
		opts.PasswordHash = "not-a-real-hash"
	}
	var expiresAt sql.NullInt64
	if opts.MembershipExpiresAt != nil {
		expiresAt = sql.NullInt64{Int64: opts.MembershipExpiresAt.UnixMilli(), Valid: true}
	}

	now := time.Now().UnixMilli()
	user, err := database.Queries.CreateUser(context.Background(), dbgen.CreateUserParams{
		ID:                  id,
		Email:               opts.Email,
		PasswordHash:        opts.PasswordHash,
		Name:                opts.Name,
		Role:                opts.Role,
		MembershipStatus:    opts.MembershipStatus,
		MembershipExpiresAt: expiresAt,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateCourt inserts an active court with the given hourly rates in cents.
// A memberRateCents of zero leaves the member rate unset.
func CreateCourt(t *testing.T, database *db.DB, name string, rateCents, memberRateCents int64) dbgen.Court {
	t.Helper()

	var memberRate sql.NullInt64
	if memberRateCents > 0 {
		memberRate = sql.NullInt64{Int64: memberRateCents, Valid: true}
	}

	now := time.Now().UnixMilli()
	court, err := database.Queries.CreateCourt(context.Background(), dbgen.CreateCourtParams{
		ID:                      uuid.NewString(),
		Name:                    name,
		PricePerHourCents:       rateCents,
		MemberPricePerHourCents: memberRate,
		IsActive:                true,
		CreatedAt:               now,
		UpdatedAt:               now,
	})
	if err != nil {
		t.Fatalf("create court: %v", err)
	}
	return court
}
