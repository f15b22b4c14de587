package bookings

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/codr1/Courtly/internal/api/apiutil"
	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/bookings"
)

const bookingsQueryTimeout = 5 * time.Second

type Handlers struct {
	bookings *bookings.Service
}

func NewHandlers(bookingService *bookings.Service) *Handlers {
	return &Handlers{bookings: bookingService}
}

// bookingRequest accepts camelCase and snake_case spellings of every field.
type bookingRequest struct {
	CourtID        string  `json:"courtId"`
	CourtIDSnake   string  `json:"court_id"`
	StartTime      string  `json:"startTime"`
	StartTimeSnake string  `json:"start_time"`
	EndTime        string  `json:"endTime"`
	EndTimeSnake   string  `json:"end_time"`
	Notes          *string `json:"notes"`
	UserID         string  `json:"userId"`
	UserIDSnake    string  `json:"user_id"`
	UserEmail      string  `json:"userEmail"`
	UserEmailSnake string  `json:"user_email"`
	Status         string  `json:"status"`
}

func (req bookingRequest) courtID() string {
	return strings.TrimSpace(apiutil.FirstNonEmpty(req.CourtID, req.CourtIDSnake))
}

func (req bookingRequest) timeRange() (time.Time, time.Time, error) {
	start, err := apiutil.ParseTime(apiutil.FirstNonEmpty(req.StartTime, req.StartTimeSnake), "startTime")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := apiutil.ParseTime(apiutil.FirstNonEmpty(req.EndTime, req.EndTimeSnake), "endTime")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (req bookingRequest) createInput(userID string) (bookings.CreateInput, error) {
	courtID := req.courtID()
	if courtID == "" {
		return bookings.CreateInput{}, apperr.ErrInvalidInput.WithMessage("courtId is required")
	}
	start, end, err := req.timeRange()
	if err != nil {
		return bookings.CreateInput{}, err
	}
	return bookings.CreateInput{
		UserID:    userID,
		CourtID:   courtID,
		StartTime: start,
		EndTime:   end,
		Notes:     req.Notes,
	}, nil
}

// updateRequest is the partial admin edit; absent fields keep their value.
type updateRequest struct {
	CourtID        *string `json:"courtId"`
	CourtIDSnake   *string `json:"court_id"`
	StartTime      *string `json:"startTime"`
	StartTimeSnake *string `json:"start_time"`
	EndTime        *string `json:"endTime"`
	EndTimeSnake   *string `json:"end_time"`
	Notes          *string `json:"notes"`
	Status         *string `json:"status"`
}

func (req updateRequest) updateInput() (bookings.UpdateInput, error) {
	in := bookings.UpdateInput{
		CourtID: apiutil.FirstNonNil(req.CourtID, req.CourtIDSnake),
		Notes:   req.Notes,
	}
	if raw := apiutil.FirstNonNil(req.StartTime, req.StartTimeSnake); raw != nil {
		start, err := apiutil.ParseTime(*raw, "startTime")
		if err != nil {
			return in, err
		}
		in.StartTime = &start
	}
	if raw := apiutil.FirstNonNil(req.EndTime, req.EndTimeSnake); raw != nil {
		end, err := apiutil.ParseTime(*raw, "endTime")
		if err != nil {
			return in, err
		}
		in.EndTime = &end
	}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return in, err
		}
		in.Status = &status
	}
	return in, nil
}

func parseStatus(raw string) (bookings.Status, error) {
	status := bookings.Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", apperr.ErrInvalidInput.WithMessage("status must be one of PENDING, CONFIRMED, CANCELLED, BLOCKED")
	}
	return status, nil
}

// POST /api/bookings
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, false)
}

// POST /api/bookings/block
func (h *Handlers) HandleCreateBlock(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, true)
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request, adminBlock bool) {
	caller, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	var req bookingRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	in, err := req.createInput(caller.ID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	in.AdminBlock = adminBlock

	ctx, cancel := context.WithTimeout(r.Context(), bookingsQueryTimeout)
	defer cancel()

	b, err := h.bookings.Create(ctx, in)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, b)
}

// POST /api/bookings/admin
func (h *Handlers) HandleCreateForUser(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	courtID := req.courtID()
	if courtID == "" {
		apiutil.WriteError(w, r, apperr.ErrInvalidInput.WithMessage("courtId is required"))
		return
	}
	start, end, err := req.timeRange()
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	in := bookings.CreateForUserInput{
		UserID:    apiutil.FirstNonEmpty(req.UserID, req.UserIDSnake),
		UserEmail: apiutil.FirstNonEmpty(req.UserEmail, req.UserEmailSnake),
		CourtID:   courtID,
		StartTime: start,
		EndTime:   end,
		Notes:     req.Notes,
	}
	if req.Status != "" {
		if in.Status, err = parseStatus(req.Status); err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsQueryTimeout)
	defer cancel()

	b, err := h.bookings.CreateForUser(ctx, in)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, b)
}

// GET /api/bookings
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsQueryTimeout)
	defer cancel()

	var (
		list []bookings.Booking
		err  error
	)
	if caller.IsAdmin() {
		list, err = h.bookings.ListAll(ctx)
	} else {
		list, err = h.bookings.ListForUser(ctx, caller.ID)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, list)
}

// GET /api/bookings/my-bookings
func (h *Handlers) HandleListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsQueryTimeout)
	defer cancel()

	list, err := h.bookings.ListForUser(ctx, caller.ID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, list)
}

// GET /api/bookings/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsQueryTimeout)
	defer cancel()

	b, err := h.bookings.Get(ctx, id, caller.Actor())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, b)
}

// PATCH /api/bookings/{id}
// The only status change a caller can request here is cancellation.
func (h *Handlers) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if status != bookings.StatusCancelled {
		apiutil.WriteError(w, r, apperr.ErrInvalidInput.WithMessage("Only cancellation is supported; use the admin endpoint for other changes"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsQueryTimeout)
	defer cancel()

	b, err := h.bookings.Cancel(ctx, id, caller.Actor())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, b)
}

// PATCH /api/bookings/{id}/admin
func (h *Handlers) HandleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	var req updateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	in, err := req.updateInput()
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsQueryTimeout)
	defer cancel()

	b, err := h.bookings.UpdateAsAdmin(ctx, id, in)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, b)
}

// DELETE /api/bookings/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsQueryTimeout)
	defer cancel()

	if err := h.bookings.DeleteAsAdmin(ctx, id); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
