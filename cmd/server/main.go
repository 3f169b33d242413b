package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/campuswell/counselbook/internal/app"
	"github.com/campuswell/counselbook/internal/config"
	"github.com/campuswell/counselbook/internal/controller"
	"github.com/campuswell/counselbook/internal/notify"
	"github.com/campuswell/counselbook/internal/repository"
	"github.com/campuswell/counselbook/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	var channels []service.Channel
	if cfg.SMTPHost != "" {
		channels = append(channels, notify.NewEmailChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword))
	}
	if cfg.TelegramToken != "" {
		telegram, err := notify.NewTelegramChannel(cfg.TelegramToken)
		if err != nil {
			logger.Error("Failed to create telegram channel, alerts degraded to email", zap.Error(err))
		} else {
			channels = append(channels, telegram)
		}
	}

	notificationService := service.NewNotificationService(notificationRepo, userRepo, channels, logger)
	availabilityService := service.NewAvailabilityService(availabilityRepo, bookingRepo, loc, logger)
	bookingService := service.NewBookingService(bookingRepo, availabilityRepo, notificationService, loc, logger)

	scheduler := app.NewScheduler(notificationService, cfg.SweepInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	ctl := controller.NewController(availabilityService, bookingService, notificationService, notificationService, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           ctl.Router(cfg.Environment),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
