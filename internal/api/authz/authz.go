package authz

import (
	"context"

	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/bookings"
)

const RoleAdmin = "ADMIN"

var (
	ErrUnauthenticated = apperr.ErrUnauthorized
	ErrForbidden       = apperr.ErrForbidden.WithMessage("Admin access required")
)

// AuthUser is the caller identity carried by a verified bearer token.
type AuthUser struct {
	ID    string
	Email string
	Role  string
}

func (u *AuthUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Actor converts the caller into the booking authorization view.
func (u *AuthUser) Actor() bookings.Actor {
	if u == nil {
		return bookings.Actor{}
	}
	return bookings.Actor{UserID: u.ID, IsAdmin: u.IsAdmin()}
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

func RequireUser(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func RequireAdmin(ctx context.Context) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if !user.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
