// Package users handles registration, credential checks and admin-managed
// membership fields.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/clock"
	"github.com/codr1/Courtly/internal/db"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
	"github.com/codr1/Courtly/internal/membership"
)

type Role string

const (
	RolePlayer Role = "PLAYER"
	RoleAdmin  Role = "ADMIN"
)

const minNameLength = 2

// User is the public view of a stored user. The password hash never leaves
// this package.
type User struct {
	ID                  string            `json:"id"`
	Email               string            `json:"email"`
	Name                string            `json:"name"`
	Phone               *string           `json:"phone"`
	Role                Role              `json:"role"`
	MembershipStatus    membership.Status `json:"membershipStatus"`
	MembershipExpiresAt *time.Time        `json:"membershipExpiresAt"`
	CreatedAt           time.Time         `json:"createdAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func FromRow(row dbgen.User) User {
	u := User{
		ID:               row.ID,
		Email:            row.Email,
		Name:             row.Name,
		Role:             Role(row.Role),
		MembershipStatus: membership.Status(row.MembershipStatus),
		CreatedAt:        clock.FromMillis(row.CreatedAt),
	}
	if row.Phone.Valid {
		phone := row.Phone.String
		u.Phone = &phone
	}
	if row.MembershipExpiresAt.Valid {
		exp := clock.FromMillis(row.MembershipExpiresAt.Int64)
		u.MembershipExpiresAt = &exp
	}
	return u
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

type Options struct {
	// PhoneRegion is the ISO region used for numbers without a country code.
	PhoneRegion string
}

type Service struct {
	db    *db.DB
	clock clock.Clock
	opts  Options
}

func NewService(database *db.DB, clk clock.Clock, opts Options) *Service {
	if opts.PhoneRegion == "" {
		opts.PhoneRegion = defaultPhoneRegion
	}
	return &Service{db: database, clock: clock.OrReal(clk), opts: opts}
}

// Register creates a PLAYER account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	return s.create(ctx, in, RolePlayer)
}

func (s *Service) create(ctx context.Context, in RegisterInput, role Role) (User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return User{}, err
	}
	name := strings.TrimSpace(in.Name)
	if len(name) < minNameLength {
		return User{}, apperr.ErrInvalidInput.WithMessage("Name must be at least 2 characters")
	}
	phone, err := NormalizePhone(in.Phone, s.opts.PhoneRegion)
	if err != nil {
		return User{}, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	var created dbgen.User
	err = s.db.RunInTx(ctx, func(tx *db.DB) error {
		if _, err := tx.Queries.GetUserByEmail(ctx, email); err == nil {
			return apperr.ErrEmailExists
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check email: %w", err)
		}

		now := s.clock.Now().UnixMilli()
		created, err = tx.Queries.CreateUser(ctx, dbgen.CreateUserParams{
			ID:               uuid.NewString(),
			Email:            email,
			PasswordHash:     hash,
			Name:             name,
			Phone:            sql.NullString{String: phone, Valid: phone != ""},
			Role:             string(role),
			MembershipStatus: string(membership.NonMember),
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}

	log.Ctx(ctx).Info().Str("user_id", created.ID).Str("role", created.Role).Msg("User registered")
	return FromRow(created), nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords return the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row, err := s.db.Queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("load user by email: %w", err)
	}
	if !VerifyPassword(row.PasswordHash, password) {
		return User{}, apperr.ErrInvalidCredentials
	}
	return FromRow(row), nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	row, err := s.db.Queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.ErrUserNotFound
		}
		return User{}, fmt.Errorf("load user %s: %w", id, err)
	}
	return FromRow(row), nil
}

// List returns all users, newest first.
func (s *Service) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.Queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]User, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out, nil
}

// UpdateMembership sets a user's membership status and expiry by email.
// A nil expiresAt clears the expiry.
func (s *Service) UpdateMembership(ctx context.Context, email string, status membership.Status, expiresAt *time.Time) (User, error) {
	if !status.Valid() {
		return User{}, apperr.ErrInvalidInput.WithMessage("membershipStatus must be MEMBER or NON_MEMBER")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, apperr.ErrInvalidInput.WithMessage("email is required")
	}

	var updated dbgen.User
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		current, err := tx.Queries.GetUserByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.ErrUserNotFound
			}
			return fmt.Errorf("load user by email: %w", err)
		}

		expiry := sql.NullInt64{}
		if expiresAt != nil {
			expiry = sql.NullInt64{Int64: clock.ToMillis(*expiresAt), Valid: true}
		}
		updated, err = tx.Queries.UpdateUserMembership(ctx, dbgen.UpdateUserMembershipParams{
			ID:                  current.ID,
			MembershipStatus:    string(status),
			MembershipExpiresAt: expiry,
			UpdatedAt:           s.clock.Now().UnixMilli(),
		})
		if err != nil {
			return fmt.Errorf("update membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}

	log.Ctx(ctx).Info().
		Str("user_id", updated.ID).
		Str("membership_status", updated.MembershipStatus).
		Msg("Membership updated")
	return FromRow(updated), nil
}

// EnsureAdmin creates an ADMIN account for email when none exists. It reports
// whether an account was created. An existing account is left untouched.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) (User, bool, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return User{}, false, err
	}
	row, err := s.db.Queries.GetUserByEmail(ctx, normalized)
	if err == nil {
		if row.Role != string(RoleAdmin) {
			log.Ctx(ctx).Warn().Str("user_id", row.ID).Msg("Bootstrap admin email belongs to a non-admin account")
		}
		return FromRow(row), false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, false, fmt.Errorf("load admin by email: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	u, err := s.create(ctx, RegisterInput{Email: normalized, Password: password, Name: name}, RoleAdmin)
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.ErrInvalidInput.WithMessage("Invalid email address")
	}
	return email, nil
}
