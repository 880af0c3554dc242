package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/Wellstation/wellstation-sub000/internal/config"
	"github.com/Wellstation/wellstation-sub000/internal/database"
	"github.com/Wellstation/wellstation-sub000/internal/handler"
	"github.com/Wellstation/wellstation-sub000/internal/jobs"
	"github.com/Wellstation/wellstation-sub000/internal/notify"
	"github.com/Wellstation/wellstation-sub000/internal/queue"
	"github.com/Wellstation/wellstation-sub000/internal/repository"
	"github.com/Wellstation/wellstation-sub000/internal/router"
	queue_publisher "github.com/Wellstation/wellstation-sub000/internal/service"
	"github.com/Wellstation/wellstation-sub000/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "dev" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log := zlog.With().Str("service", "wellstation").Logger()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	store, err := storage.NewLocalStorage(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init failed")
	}

	reservations := repository.NewReservationRepo(db)
	settings := repository.NewSettingRepo(db)
	verifications := repository.NewVerificationRepo(db)
	visitors := repository.NewVisitorRepo(db)
	works := repository.NewWorkRecordRepo(db)
	feedbacks := repository.NewFeedbackRepo(db)
	gallery := repository.NewGalleryRepo(db)
	admins := repository.NewAdminRepo(db)

	notifier := notify.NewGatewayClient(cfg.NotifyTemplateURL, cfg.NotifySMSURL,
		cfg.NotifyAPIKey, cfg.NotifySender, log.With().Str("component", "notify").Logger())
	publisher := queue_publisher.New(cfg.AMQPURL, log.With().Str("component", "publisher").Logger())

	h := router.Handlers{
		Booking:           handler.NewBookingHandler(reservations, settings, verifications, publisher, log),
		Verification:      handler.NewVerificationHandler(verifications, notifier, log),
		Feedback:          handler.NewFeedbackHandler(feedbacks, log),
		Gallery:           handler.NewGalleryHandler(gallery, store, log),
		Work:              handler.NewWorkHandler(works, store, log),
		Visitor:           handler.NewVisitorHandler(visitors, log),
		Auth:              handler.NewAuthHandler(admins, cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays, cfg.BcryptCost, log),
		AdminReservations: handler.NewAdminReservationHandler(reservations, publisher, log),
		Settings:          handler.NewSettingHandler(settings, log),
	}

	e := router.New(cfg, h, rdb)

	go func() {
		consumerLog := log.With().Str("component", "consumer").Logger()
		if err := queue.StartReservationConsumer(cfg.AMQPURL, notifier, consumerLog); err != nil {
			consumerLog.Error().Err(err).Msg("reservation consumer stopped")
		}
	}()

	cronJobs := jobs.Start(verifications, visitors, works, admins,
		log.With().Str("component", "jobs").Logger())
	defer cronJobs.Stop()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
