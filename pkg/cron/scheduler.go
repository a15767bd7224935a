// Package cron runs the folder watch loop using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tariffmill/tariffmill/internal/domain/shipment"
)

// Scheduler polls the input folder on a fixed interval and runs the
// shipment service over whatever arrived. Passes never overlap: a pass
// still running when the next tick fires makes the tick a no-op.
type Scheduler struct {
	cron     *cron.Cron
	shipment *shipment.Service
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates the folder watch scheduler.
func NewScheduler(svc *shipment.Service, pollSeconds int, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		shipment: svc,
		interval: time.Duration(pollSeconds) * time.Second,
		logger:   logger,
	}
}

// Start begins polling.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every "+s.interval.String(), s.processPass)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("folder watch started",
		slog.Duration("interval", s.interval),
	)
	return nil
}

// Stop gracefully stops polling; the returned context completes when a
// pass in flight has finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("folder watch stopping")
	return s.cron.Stop()
}

// RunNow triggers a pass immediately (startup and manual runs).
func (s *Scheduler) RunNow() {
	s.processPass()
}

// processPass runs one sweep of the input folder.
func (s *Scheduler) processPass() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Debug("previous pass still running, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	processed, failed, err := s.shipment.ProcessFolder(ctx)
	if err != nil {
		s.logger.Error("folder pass failed", slog.Any("error", err))
		return
	}
	if processed > 0 || failed > 0 {
		s.logger.Info("folder pass completed",
			slog.Int("files_processed", processed),
			slog.Int("files_failed", failed),
		)
	}
}
