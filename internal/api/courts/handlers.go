// internal/api/courts/handlers.go
package courts

import (
	"context"
	"net/http"
	"time"

	"github.com/codr1/Courtly/internal/api/apiutil"
	"github.com/codr1/Courtly/internal/bookings"
	"github.com/codr1/Courtly/internal/courts"
	"github.com/codr1/Courtly/internal/money"
)

const courtsQueryTimeout = 5 * time.Second

type Handlers struct {
	courts   *courts.Service
	bookings *bookings.Service
}

func NewHandlers(courtService *courts.Service, bookingService *bookings.Service) *Handlers {
	return &Handlers{courts: courtService, bookings: bookingService}
}

// courtRequest accepts camelCase and snake_case spellings.
type courtRequest struct {
	Name                    *string      `json:"name"`
	Description             *string      `json:"description"`
	PricePerHour            *money.Cents `json:"pricePerHour"`
	PricePerHourSnake       *money.Cents `json:"price_per_hour"`
	MemberPricePerHour      *money.Cents `json:"memberPricePerHour"`
	MemberPricePerHourSnake *money.Cents `json:"member_price_per_hour"`
	IsActive                *bool        `json:"isActive"`
	IsActiveSnake           *bool        `json:"is_active"`
}

func (req courtRequest) pricePerHour() *money.Cents {
	return apiutil.FirstNonNil(req.PricePerHour, req.PricePerHourSnake)
}

func (req courtRequest) memberPricePerHour() *money.Cents {
	return apiutil.FirstNonNil(req.MemberPricePerHour, req.MemberPricePerHourSnake)
}

func (req courtRequest) isActive() *bool {
	return apiutil.FirstNonNil(req.IsActive, req.IsActiveSnake)
}

// GET /api/courts
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	list, err := h.courts.List(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, list)
}

// GET /api/courts/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	court, err := h.courts.Get(ctx, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, court)
}

// GET /api/courts/{id}/bookings?from=&to=
func (h *Handlers) HandleListBookings(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	query := r.URL.Query()
	from, err := apiutil.ParseOptionalTime(apiutil.FirstNonEmpty(query.Get("from"), query.Get("start")), "from")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	to, err := apiutil.ParseOptionalTime(apiutil.FirstNonEmpty(query.Get("to"), query.Get("end")), "to")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	list, err := h.bookings.ListForCourt(ctx, id, from, to)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, list)
}

// POST /api/courts
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req courtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	in := courts.CreateInput{
		Description:        req.Description,
		MemberPricePerHour: req.memberPricePerHour(),
		IsActive:           req.isActive(),
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if price := req.pricePerHour(); price != nil {
		in.PricePerHour = *price
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	court, err := h.courts.Create(ctx, in)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, court)
}

// PATCH /api/courts/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	var req courtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	court, err := h.courts.Update(ctx, id, courts.UpdateInput{
		Name:               req.Name,
		Description:        req.Description,
		PricePerHour:       req.pricePerHour(),
		MemberPricePerHour: req.memberPricePerHour(),
		IsActive:           req.isActive(),
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, court)
}

// DELETE /api/courts/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	if err := h.courts.Delete(ctx, id); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
