// Package jobs runs periodic maintenance in the background.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/oggyb/findtheone/internal/repository"
)

// Reconciler reports users whose balance drifted from their ledger.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]repository.Discrepancy, error)
}

type Scheduler struct {
	sched  gocron.Scheduler
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{sched: sched, logger: logger.With("component", "jobs")}, nil
}

// ScheduleReconcile checks the balance invariant every interval, starting
// immediately. Runs never overlap.
func (s *Scheduler) ScheduleReconcile(r Reconciler, interval time.Duration) error {
	timeout := interval
	if timeout > time.Minute {
		timeout = time.Minute
	}
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			diffs, err := r.Reconcile(ctx)
			if err != nil {
				s.logger.Error("reconcile failed", "err", err)
				return
			}
			if len(diffs) == 0 {
				s.logger.Debug("ledger reconciled")
				return
			}
			s.logger.Warn("ledger drift detected", "users", len(diffs))
		}),
		gocron.WithName("ledger-reconcile"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	return err
}

func (s *Scheduler) Start() { s.sched.Start() }

// Shutdown waits for running jobs to finish.
func (s *Scheduler) Shutdown() error { return s.sched.Shutdown() }
