// Package jobs runs the periodic maintenance tasks.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/repository"
)

// Retention windows for the purge jobs. Verification rows must outlive
// the booking freshness window; visitor sessions only need same-day
// uniqueness but a week of slack aids debugging.
const (
	verificationRetention = 24 * time.Hour
	sessionRetention      = 7 * 24 * time.Hour
	viewRetention         = 48 * time.Hour
)

// Start schedules the hourly cleanup jobs and returns the running cron
// instance so the caller can Stop it on shutdown.
func Start(ver *repository.VerificationRepo, vis *repository.VisitorRepo,
	works *repository.WorkRecordRepo, admins *repository.AdminRepo, log zerolog.Logger) *cron.Cron {

	c := cron.New()

	_, _ = c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if n, err := ver.PurgeExpired(ctx, verificationRetention); err != nil {
			log.Error().Err(err).Msg("purge verification codes failed")
		} else if n > 0 {
			log.Info().Int64("rows", n).Msg("purged expired verification codes")
		}

		if n, err := vis.PurgeSessions(ctx, sessionRetention); err != nil {
			log.Error().Err(err).Msg("purge visitor sessions failed")
		} else if n > 0 {
			log.Info().Int64("rows", n).Msg("purged stale visitor sessions")
		}

		if n, err := works.PurgeStaleViews(ctx, viewRetention); err != nil {
			log.Error().Err(err).Msg("purge view dedup rows failed")
		} else if n > 0 {
			log.Info().Int64("rows", n).Msg("purged stale view dedup rows")
		}

		if n, err := admins.PurgeExpiredTokens(ctx); err != nil {
			log.Error().Err(err).Msg("purge refresh tokens failed")
		} else if n > 0 {
			log.Info().Int64("rows", n).Msg("purged expired refresh tokens")
		}
	})

	c.Start()
	return c
}
