package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const (
	pendingReleaseJobName = "pending_booking_release"
	pendingReleaseTimeout = 2 * time.Minute
)

// PendingReleaser cancels unpaid PENDING bookings older than ttl.
type PendingReleaser interface {
	ReleaseStalePending(ctx context.Context, ttl time.Duration) (int, error)
}

// RegisterPendingReleaseJob schedules the release of stale pending bookings.
// A ttl of zero leaves pending bookings alone and registers nothing.
func RegisterPendingReleaseJob(svc *Service, releaser PendingReleaser, cronExpr string, ttl time.Duration) error {
	if ttl <= 0 {
		log.Info().Msg("Pending booking release disabled")
		return nil
	}
	if releaser == nil {
		return fmt.Errorf("pending release job requires a booking service")
	}

	jobLogger := log.With().
		Str("component", "pending_release_job").
		Str("job_name", pendingReleaseJobName).
		Dur("ttl", ttl).
		Logger()

	_, err := svc.AddJob(pendingReleaseJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pendingReleaseTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		released, err := releaser.ReleaseStalePending(ctx, ttl)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to release stale pending bookings")
			return
		}
		jobLogger.Debug().Int("released", released).Msg("Pending release pass finished")
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add pending release job: %w", err)
	}

	jobLogger.Info().Msg("Pending release job registered")
	return nil
}
