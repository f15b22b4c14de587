package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/api/authz"
	"github.com/codr1/Courtly/internal/apperr"
)

const maxBodyBytes = 1 << 20

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"traceId,omitempty"`
}

// DecodeJSON decodes a single JSON object into dst, rejecting unknown fields.
// Failures come back as INVALID_INPUT.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.ErrInvalidInput.WithMessage("Missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.ErrInvalidInput.WithMessage("Missing request body")
		}
		return apperr.ErrInvalidInput.WithMessage("Invalid JSON body").Wrap(err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperr.ErrInvalidInput.WithMessage("Invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError translates err into a {code, message, traceId} response. Typed
// errors keep their status and message; anything else is logged and hidden
// behind a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	appErr, ok := apperr.From(err)
	if !ok {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
		appErr = apperr.ErrInternal
	} else if appErr.Status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("code", appErr.Code).Msg("Request failed")
	} else {
		logger.Warn().Str("code", appErr.Code).Str("message", appErr.Message).AnErr("cause", appErr.Err).Msg("Request rejected")
	}

	resp := ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		TraceID: RequestID(r),
	}
	if writeErr := WriteJSON(w, appErr.Status, resp); writeErr != nil {
		logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

// Respond writes payload as JSON and logs a failed write.
func Respond(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

// RequireUser returns the authenticated user or writes a 401.
func RequireUser(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, bool) {
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return nil, false
	}
	return user, true
}

// RequireAdmin returns the authenticated admin or writes a 401/403.
func RequireAdmin(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, bool) {
	user := authz.UserFromContext(r.Context())
	if err := authz.RequireAdmin(r.Context()); err != nil {
		logEvent := log.Ctx(r.Context()).Warn().Str("path", r.URL.Path)
		if user != nil {
			logEvent = logEvent.Str("user_id", user.ID)
		}
		logEvent.Msg("Admin access denied")
		WriteError(w, r, err)
		return nil, false
	}
	return user, true
}

// SetRetryAfter writes a Retry-After header in whole seconds, at least 1.
func SetRetryAfter(w http.ResponseWriter, d time.Duration) {
	secs := int64(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
}
