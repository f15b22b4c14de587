// Package apperr defines the typed error returned by service operations.
// The routing layer turns an *Error into a {code, message} response with
// Status as the HTTP status.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code, so sentinels work with
// errors.Is after WithMessage or Wrap.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// WithMessage returns a copy of e with a different message.
func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

// Wrap returns a copy of e carrying err as its cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// From extracts the first *Error in err's chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Validation
var (
	ErrInvalidTimeRange = New(http.StatusBadRequest, "INVALID_TIME_RANGE", "Start time must be before end time")
	ErrInvalidDuration  = New(http.StatusBadRequest, "INVALID_DURATION", "Booking duration must be positive")
	ErrInvalidInput     = New(http.StatusBadRequest, "INVALID_INPUT", "Invalid input")
)

// Temporal
var ErrPastBooking = New(http.StatusBadRequest, "PAST_BOOKING", "Cannot book or cancel in the past")

// Not found
var (
	ErrCourtNotFound   = New(http.StatusNotFound, "COURT_NOT_FOUND", "Court not found")
	ErrBookingNotFound = New(http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	ErrUserNotFound    = New(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	ErrPaymentNotFound = New(http.StatusNotFound, "PAYMENT_NOT_FOUND", "Payment not found")
)

// Conflict
var ErrBookingConflict = New(http.StatusConflict, "BOOKING_CONFLICT", "This time slot is already booked")

// Authorization
var (
	ErrUnauthorized       = New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrForbidden          = New(http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
)

// State
var (
	ErrAlreadyCancelled  = New(http.StatusBadRequest, "ALREADY_CANCELLED", "Booking is already cancelled")
	ErrAlreadyPaid       = New(http.StatusBadRequest, "ALREADY_PAID", "Booking is already paid")
	ErrBookingNotPayable = New(http.StatusBadRequest, "BOOKING_NOT_PAYABLE", "Booking cannot be paid in its current status")
	ErrEmailExists       = New(http.StatusBadRequest, "EMAIL_EXISTS", "Email already registered")
)

// Throttling
var ErrRateLimited = New(http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later")

// External
var (
	ErrWebhook        = New(http.StatusBadRequest, "WEBHOOK_ERROR", "Webhook verification failed")
	ErrPaymentGateway = New(http.StatusBadGateway, "PAYMENT_GATEWAY_ERROR", "Payment provider request failed")
)

// ErrInternal is what clients see for any error that is not an *Error.
var ErrInternal = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
