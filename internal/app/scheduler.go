package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campuswell/counselbook/internal/service"
)

// Scheduler runs the background maintenance tasks.
type Scheduler struct {
	notifications *service.NotificationService
	sweepInterval time.Duration
	logger        *zap.Logger
	stopChan      chan struct{}
}

func NewScheduler(notifications *service.NotificationService, sweepInterval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		notifications: notifications,
		sweepInterval: sweepInterval,
		logger:        logger,
		stopChan:      make(chan struct{}),
	}
}

// Start launches the background tasks.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runNotificationSweep(ctx)
}

// Stop stops the background tasks.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runNotificationSweep periodically deletes notifications past their
// expiry instant. First sweep runs at startup.
func (s *Scheduler) runNotificationSweep(ctx context.Context) {
	s.notifications.SweepExpired(ctx)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.notifications.SweepExpired(ctx)
		case <-s.stopChan:
			s.logger.Info("Notification sweep stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Notification sweep cancelled")
			return
		}
	}
}
