package users

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/codr1/Courtly/internal/apperr"
)

const MinPasswordLength = 8

// HashPassword enforces the minimum length and hashes with bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", apperr.ErrInvalidInput.WithMessage("Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches a stored bcrypt hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
