package pricing

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/codr1/Courtly/internal/api/apiutil"
	"github.com/codr1/Courtly/internal/api/authz"
	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/pricing"
)

const pricingQueryTimeout = 5 * time.Second

type Handlers struct {
	engine *pricing.Engine
}

func NewHandlers(engine *pricing.Engine) *Handlers {
	return &Handlers{engine: engine}
}

// GET /api/pricing/quote?courtId=&start=&end=
// Anonymous callers get the standard tariff; signed-in members get theirs.
func (h *Handlers) HandleQuote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	courtID := strings.TrimSpace(apiutil.FirstNonEmpty(query.Get("courtId"), query.Get("court_id")))
	if courtID == "" {
		apiutil.WriteError(w, r, apperr.ErrInvalidInput.WithMessage("courtId is required"))
		return
	}
	start, err := apiutil.ParseTime(apiutil.FirstNonEmpty(query.Get("start"), query.Get("startTime"), query.Get("start_time")), "start")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	end, err := apiutil.ParseTime(apiutil.FirstNonEmpty(query.Get("end"), query.Get("endTime"), query.Get("end_time")), "end")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var userID string
	if user := authz.UserFromContext(r.Context()); user != nil {
		userID = user.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), pricingQueryTimeout)
	defer cancel()

	quote, err := h.engine.Quote(ctx, courtID, userID, start, end)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, quote)
}
