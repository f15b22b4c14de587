// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/Courtly/internal/config"
	"github.com/codr1/Courtly/internal/db"
)

// devSecretKey signs tokens in development when APP_SECRET_KEY is unset.
// Validation refuses to start any other environment without a real key.
const devSecretKey = "courtly-development-secret"

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func main() {
	configPath := flag.String("config", "config/app.yaml", "Path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	if cfg.App.SecretKey == "" {
		log.Warn().Msg("APP_SECRET_KEY not set, using development signing key")
		cfg.App.SecretKey = devSecretKey
	}

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to open database")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer app.close()

	server := newServer(cfg, app.handler)

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().
			Str("app", cfg.App.Name).
			Str("environment", cfg.App.Environment).
			Int("port", cfg.App.Port).
			Bool("payments_enabled", cfg.PaymentsEnabled()).
			Msg("Starting server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		app.close()
		database.Close()
		os.Exit(1)
	}
}
