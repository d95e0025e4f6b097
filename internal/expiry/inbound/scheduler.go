package inbound

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/usecase"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/clock"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/config"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goroutine"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/uid"
	"go.uber.org/atomic"
)

const defaultRunAt = "09:00"

// Scheduler triggers one check per day at a fixed wall-clock time. A tick
// that arrives while a run is still going is dropped.
type Scheduler struct {
	uc      ucRunner
	clock   clock.Clocker
	uuid    uid.StringID
	hour    int
	minute  int
	running *atomic.Bool
}

func NewScheduler(uc ucRunner, clk clock.Clocker, uuid uid.StringID, runAt string) (*Scheduler, error) {
	hour, minute, err := ParseRunAt(runAt)
	if err != nil {
		return nil, err
	}
	return &Scheduler{uc: uc, clock: clk, uuid: uuid, hour: hour, minute: minute, running: atomic.NewBool(false)}, nil
}

// RegisterScheduler starts the daily scheduler when
// modules.expiry.scheduler.enabled is set.
func RegisterScheduler(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	clk clock.Clocker,
	uuid uid.StringID,
	uc ucRunner,
) error {
	if !cfg.GetBool("modules.expiry.scheduler.enabled") {
		return nil
	}

	runAt := cfg.GetString("modules.expiry.scheduler.run_at")
	if runAt == "" {
		runAt = defaultRunAt
	}

	s, err := NewScheduler(uc, clk, uuid, runAt)
	if err != nil {
		return err
	}

	routine.Go(ctx, func(pCtx context.Context) error {
		slog.InfoContext(ctx, "Running job for daily expiry check", "run_at", runAt)
		return s.Run(pCtx)
	})

	return nil
}

// ParseRunAt reads a "HH:MM" 24-hour time.
func ParseRunAt(runAt string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", runAt)
	if err != nil {
		return 0, 0, fmt.Errorf("scheduler run_at %q must be HH:MM: %w", runAt, err)
	}
	return t.Hour(), t.Minute(), nil
}

// NextRun is the first hour:minute in now's location strictly after now.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return next
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		now := s.clock.Now()
		wait := NextRun(now, s.hour, s.minute).Sub(now)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			s.Trigger(ctx)
		}
	}
}

// Trigger runs one check unless another is in progress, and reports whether
// it ran.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "previous expiry check still running, skipping tick")
		return false
	}
	defer s.running.Store(false)

	ctx = instrument.SetCorrelationID(ctx, s.uuid.Generate())
	report, err := s.uc.CheckExpiry(ctx, usecase.CheckExpiryInput{Source: "scheduler"})
	if err != nil {
		slog.ErrorContext(ctx, "scheduled expiry check failed", "error", err)
		return true
	}

	slog.InfoContext(ctx, "scheduled expiry check finished", "run_id", report.RunID, "sent", report.Sent, "failed", report.Failed)
	return true
}
