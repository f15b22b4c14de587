// cmd/server/server.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtly/internal/api"
	"github.com/codr1/Courtly/internal/api/auth"
	"github.com/codr1/Courtly/internal/bookings"
	"github.com/codr1/Courtly/internal/clock"
	"github.com/codr1/Courtly/internal/config"
	"github.com/codr1/Courtly/internal/courts"
	"github.com/codr1/Courtly/internal/db"
	"github.com/codr1/Courtly/internal/email"
	"github.com/codr1/Courtly/internal/payments"
	"github.com/codr1/Courtly/internal/pricing"
	"github.com/codr1/Courtly/internal/ratelimit"
	"github.com/codr1/Courtly/internal/scheduler"
	"github.com/codr1/Courtly/internal/users"
)

type app struct {
	handler      http.Handler
	scheduler    *scheduler.Service
	loginLimiter *ratelimit.Limiter
	notifier     *email.Notifier
	closeOnce    sync.Once
}

// newApp wires services, background jobs and the HTTP handler.
func newApp(ctx context.Context, cfg *config.Config, database *db.DB) (*app, error) {
	clk := clock.Real{}

	notifier, err := newNotifier(ctx, cfg, database)
	if err != nil {
		return nil, err
	}

	courtService := courts.NewService(database, clk)
	bookingService := bookings.NewService(database, clk)
	pricingEngine := pricing.NewEngine(database.Queries, clk)
	userService := users.NewService(database, clk, users.Options{PhoneRegion: cfg.App.PhoneRegion})

	var gateway payments.Gateway
	if cfg.PaymentsEnabled() {
		gateway = payments.NewStripeGateway(cfg.Payments.SecretKey, cfg.Payments.WebhookSecret)
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY not set, payment endpoints are disabled")
	}
	paymentService := payments.NewService(database, gateway, payments.Options{
		Currency:   cfg.Payments.Currency,
		SuccessURL: cfg.Payments.SuccessURL,
		CancelURL:  cfg.Payments.CancelURL,
	}, clk)
	if notifier != nil {
		bookingService.WithNotifier(notifier)
		paymentService.WithNotifier(notifier)
	}

	tokens, err := auth.NewTokens(cfg.App.SecretKey, cfg.Auth.TokenTTL, clk)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		admin, created, err := userService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, "")
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info().Str("user_id", admin.ID).Bool("created", created).Msg("Admin account ready")
	}

	sched, err := scheduler.New()
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if err := scheduler.RegisterPendingReleaseJob(sched, bookingService, cfg.Scheduler.PendingReleaseCron, cfg.Scheduler.PendingTTL); err != nil {
		_ = sched.Stop()
		return nil, err
	}
	sched.Start()

	loginLimiter := ratelimit.New(&ratelimit.Config{
		MaxAttempts: cfg.RateLimit.LoginMaxAttempts,
		Lockout:     cfg.RateLimit.LoginLockout,
		Clock:       clk,
	})

	handler := api.NewHandler(api.Deps{
		DB:             database,
		Courts:         courtService,
		Bookings:       bookingService,
		Pricing:        pricingEngine,
		Payments:       paymentService,
		Users:          userService,
		Tokens:         tokens,
		LoginLimiter:   loginLimiter,
		RequestLimiter: ratelimit.NewRequestLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, clk),
		FrontendURLs:   cfg.App.FrontendURLs,
		TrustProxy:     cfg.App.TrustProxy,
	})

	return &app{handler: handler, scheduler: sched, loginLimiter: loginLimiter, notifier: notifier}, nil
}

// newNotifier returns a nil Notifier when email is not configured.
func newNotifier(ctx context.Context, cfg *config.Config, database *db.DB) (*email.Notifier, error) {
	if !cfg.EmailEnabled() {
		log.Info().Msg("Email not configured, booking emails are disabled")
		return nil, nil
	}
	client, err := email.NewSESClient(ctx, email.SESConfig{
		Region:          cfg.Email.Region,
		Sender:          cfg.Email.Sender,
		AccessKeyID:     cfg.Email.AccessKeyID,
		SecretAccessKey: cfg.Email.SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("ses client: %w", err)
	}
	return email.NewNotifier(client, database.Queries, email.NotifierOptions{
		AppName:  cfg.App.Name,
		Currency: cfg.Payments.Currency,
	}), nil
}

func (a *app) close() {
	a.closeOnce.Do(func() {
		if err := a.scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		a.loginLimiter.Close()
		a.notifier.Wait()
	})
}

func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
