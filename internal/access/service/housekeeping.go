package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/assetdocs/accessd/internal/access/store"
)

// HousekeepingService periodically removes expired step-up challenges and
// lapsed setup tokens so neither table grows without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the sweeper. If interval is 0 or negative,
// defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts down the worker, blocking until any in-progress sweep finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep immediately on startup.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep deletes expired records. Each deletion is independent; a failure in
// one doesn't stop the others.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	if err := s.Store.OTPChallenges().DeleteExpiredChallenges(ctx); err != nil {
		s.Logger.Error("failed to delete expired step-up challenges", "error", err)
	} else {
		s.Logger.Debug("deleted expired step-up challenges")
	}

	if err := s.Store.Users().DeleteExpiredSetupTokens(ctx); err != nil {
		s.Logger.Error("failed to delete expired setup tokens", "error", err)
	} else {
		s.Logger.Debug("deleted expired setup tokens")
	}
}
