// Package scheduler runs the periodic jobs of the backend.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StatusUpdater moves tournaments between statuses based on their dates.
type StatusUpdater interface {
	AutoUpdateStatuses(ctx context.Context, now time.Time) error
}

type Scheduler struct {
	sched    gocron.Scheduler
	updater  StatusUpdater
	interval time.Duration
	logger   *slog.Logger
}

// New registers the tournament status job. The first run happens right after
// Start, later runs follow the interval.
func New(interval time.Duration, updater StatusUpdater, logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{
		sched:    sched,
		updater:  updater,
		interval: interval,
		logger:   logger,
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.updateTournamentStatuses),
		gocron.WithName("tournament-status"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("register tournament status job: %w", err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Info("scheduler started", slog.Duration("tournament_status_interval", s.interval))
}

// Shutdown waits for running jobs to finish.
func (s *Scheduler) Shutdown() error {
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("scheduler shutdown: %w", err)
	}
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) updateTournamentStatuses() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	if err := s.updater.AutoUpdateStatuses(ctx, time.Now().UTC()); err != nil {
		s.logger.Error("scheduler: tournament status update failed", slog.Any("error", err))
	}
}
