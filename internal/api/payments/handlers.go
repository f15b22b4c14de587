package payments

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/api/apiutil"
	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/payments"
)

const (
	paymentsTimeout     = 15 * time.Second
	maxWebhookBodyBytes = 64 << 10
)

type Handlers struct {
	payments *payments.Service
}

func NewHandlers(paymentService *payments.Service) *Handlers {
	return &Handlers{payments: paymentService}
}

// POST /api/payments/create-checkout-session
func (h *Handlers) HandleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		BookingID      string `json:"bookingId"`
		BookingIDSnake string `json:"booking_id"`
	}
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	bookingID := strings.TrimSpace(apiutil.FirstNonEmpty(req.BookingID, req.BookingIDSnake))
	if bookingID == "" {
		apiutil.WriteError(w, r, apperr.ErrInvalidInput.WithMessage("bookingId is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), paymentsTimeout)
	defer cancel()

	sess, err := h.payments.CreateCheckoutSession(ctx, bookingID, caller.ID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, sess)
}

// POST /api/payments/webhook
// The body must be read raw; the signature covers the exact bytes.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		apiutil.WriteError(w, r, apperr.ErrWebhook.WithMessage("Failed to read webhook body").Wrap(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), paymentsTimeout)
	defer cancel()

	if err := h.payments.HandleWebhook(ctx, payload, r.Header.Get("Stripe-Signature")); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	log.Ctx(r.Context()).Debug().Int("bytes", len(payload)).Msg("Webhook processed")
	apiutil.Respond(w, r, http.StatusOK, map[string]bool{"received": true})
}
