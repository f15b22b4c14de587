package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/api/apiutil"
	"github.com/codr1/Courtly/internal/api/auth"
	bookingsapi "github.com/codr1/Courtly/internal/api/bookings"
	courtsapi "github.com/codr1/Courtly/internal/api/courts"
	paymentsapi "github.com/codr1/Courtly/internal/api/payments"
	pricingapi "github.com/codr1/Courtly/internal/api/pricing"
	usersapi "github.com/codr1/Courtly/internal/api/users"
	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/bookings"
	"github.com/codr1/Courtly/internal/courts"
	"github.com/codr1/Courtly/internal/db"
	"github.com/codr1/Courtly/internal/payments"
	"github.com/codr1/Courtly/internal/pricing"
	"github.com/codr1/Courtly/internal/ratelimit"
	"github.com/codr1/Courtly/internal/users"
)

const readyTimeout = 2 * time.Second

var errRouteNotFound = apperr.New(http.StatusNotFound, "NOT_FOUND", "Route not found")

// Deps carries everything the routing layer needs. Nil limiters disable
// throttling.
type Deps struct {
	DB       *db.DB
	Courts   *courts.Service
	Bookings *bookings.Service
	Pricing  *pricing.Engine
	Payments *payments.Service
	Users    *users.Service
	Tokens   *auth.Tokens

	LoginLimiter   *ratelimit.Limiter
	RequestLimiter *ratelimit.RequestLimiter
	FrontendURLs   []string
	TrustProxy     bool
}

// NewHandler builds the routed, middleware-wrapped HTTP handler.
func NewHandler(deps Deps) http.Handler {
	router := http.NewServeMux()
	registerRoutes(router, deps)

	return ChainMiddleware(
		router,
		WithAuth(deps.Tokens),
		WithLogging,
		WithRecovery,
		WithRateLimit(deps.RequestLimiter, deps.TrustProxy),
		WithRequestID,
		WithCORS(deps.FrontendURLs),
	)
}

func registerRoutes(mux *http.ServeMux, deps Deps) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAdmin(h)
	}

	// Health checks
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		apiutil.Respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := deps.DB.PingContext(ctx); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Readiness check failed")
			apiutil.Respond(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		apiutil.Respond(w, r, http.StatusOK, map[string]string{"status": "ready"})
	})

	// Auth routes
	authHandlers := auth.NewHandlers(deps.Users, deps.Tokens, deps.LoginLimiter, deps.TrustProxy)
	mux.HandleFunc("POST /api/auth/register", authHandlers.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandlers.HandleLogin)
	mux.HandleFunc("GET /api/auth/me", authHandlers.HandleMe)

	// Court routes
	courtHandlers := courtsapi.NewHandlers(deps.Courts, deps.Bookings)
	mux.HandleFunc("GET /api/courts", courtHandlers.HandleList)
	mux.HandleFunc("GET /api/courts/{id}", courtHandlers.HandleGet)
	mux.HandleFunc("GET /api/courts/{id}/bookings", courtHandlers.HandleListBookings)
	mux.Handle("POST /api/courts", admin(courtHandlers.HandleCreate))
	mux.Handle("PATCH /api/courts/{id}", admin(courtHandlers.HandleUpdate))
	mux.Handle("DELETE /api/courts/{id}", admin(courtHandlers.HandleDelete))

	// Pricing routes
	pricingHandlers := pricingapi.NewHandlers(deps.Pricing)
	mux.HandleFunc("GET /api/pricing/quote", pricingHandlers.HandleQuote)

	// Booking routes
	bookingHandlers := bookingsapi.NewHandlers(deps.Bookings)
	mux.HandleFunc("POST /api/bookings", bookingHandlers.HandleCreate)
	mux.Handle("POST /api/bookings/block", admin(bookingHandlers.HandleCreateBlock))
	mux.Handle("POST /api/bookings/admin", admin(bookingHandlers.HandleCreateForUser))
	mux.HandleFunc("GET /api/bookings", bookingHandlers.HandleList)
	mux.HandleFunc("GET /api/bookings/my-bookings", bookingHandlers.HandleListMine)
	mux.HandleFunc("GET /api/bookings/{id}", bookingHandlers.HandleGet)
	mux.HandleFunc("PATCH /api/bookings/{id}", bookingHandlers.HandleUpdateStatus)
	mux.Handle("PATCH /api/bookings/{id}/admin", admin(bookingHandlers.HandleAdminUpdate))
	mux.Handle("DELETE /api/bookings/{id}", admin(bookingHandlers.HandleDelete))

	// Payment routes
	paymentHandlers := paymentsapi.NewHandlers(deps.Payments)
	mux.HandleFunc("POST /api/payments/create-checkout-session", paymentHandlers.HandleCreateCheckoutSession)
	mux.HandleFunc("POST /api/payments/webhook", paymentHandlers.HandleWebhook)

	// User administration
	userHandlers := usersapi.NewHandlers(deps.Users)
	mux.Handle("GET /api/users", admin(userHandlers.HandleList))
	mux.Handle("PATCH /api/users/membership", admin(userHandlers.HandleUpdateMembership))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		apiutil.WriteError(w, r, errRouteNotFound)
	})
}
