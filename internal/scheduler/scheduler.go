package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	"github.com/go-co-op/gocron"
)

// Runner performs one merge run.
type Runner interface {
	Run(ctx context.Context) (domain.RunReport, error)
}

// Scheduler re-runs the merge on a fixed interval. A run that is still in
// progress when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler. Start must be called to begin running.
func New(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the merge job, runs it once immediately and starts the
// underlying scheduler. Runs stop being started once ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}

	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.Info("merge scheduled", "interval", s.interval)
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled merge failed", "error", err)
		return
	}
	s.logger.Debug("scheduled merge finished", "run_id", report.RunID)
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
