package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"setlist/internal/batch"
	"setlist/internal/logging"
	"setlist/internal/services"
)

// StepRunner runs one batch step.
type StepRunner interface {
	RunOnce(ctx context.Context) (batch.StepResult, error)
}

// Flag persists whether a schedule is active.
type Flag interface {
	SchedulerActive(ctx context.Context) (bool, error)
	SetSchedulerActive(ctx context.Context, active bool) error
}

// Scheduler drives a StepRunner on a ticker.
type Scheduler struct {
	runner   StepRunner
	flag     Flag
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler. A non-positive interval defaults to one minute.
func New(runner StepRunner, flag Flag, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		runner:   runner,
		flag:     flag,
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "scheduler"),
	}
}

// Start marks the schedule active and begins ticking. The first step runs
// immediately. Calling Start while already running is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		select {
		case <-s.done:
		default:
			s.logger.Info("schedule already running")
			return nil
		}
	}
	if err := s.flag.SetSchedulerActive(ctx, true); err != nil {
		return err
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(loopCtx, s.done)
	s.logger.Info("schedule started",
		logging.String(logging.FieldEventType, "schedule_started"),
		logging.Duration("interval", s.interval))
	return nil
}

// Stop ends the schedule and clears the active flag. It waits for an
// in-flight step to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	return s.flag.SetSchedulerActive(ctx, false)
}

// IsActive reports whether a schedule is active in any process.
func (s *Scheduler) IsActive(ctx context.Context) (bool, error) {
	return s.flag.SchedulerActive(ctx)
}

// Done is closed when the loop exits. It is nil before the first Start.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if s.tick(ctx) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick runs one step and reports whether the loop should end.
func (s *Scheduler) tick(ctx context.Context) bool {
	active, err := s.flag.SchedulerActive(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		logging.WarnWithContext(s.logger, "could not read schedule flag", "schedule_flag_error",
			logging.Error(err),
			logging.String(logging.FieldImpact, "step skipped"))
		return false
	}
	if !active {
		s.logger.Info("schedule stopped elsewhere",
			logging.String(logging.FieldEventType, "schedule_stopped"))
		return true
	}

	res, err := s.runner.RunOnce(ctx)
	switch {
	case errors.Is(err, batch.ErrBusy):
		s.logger.Info("previous step still running, skipping tick")
		return false
	case services.IsFatal(err):
		logging.ErrorWithContext(s.logger, "schedule cannot continue", "schedule_aborted",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run scan, then start the schedule again"))
		if err := s.flag.SetSchedulerActive(context.WithoutCancel(ctx), false); err != nil {
			s.logger.Warn("failed to clear schedule flag", logging.Error(err))
		}
		return true
	case err != nil:
		logging.ErrorWithContext(s.logger, "batch step failed", "batch_error",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the schedule keeps running; fix the cause or stop it"))
		return ctx.Err() != nil
	}
	if res.Complete {
		if err := s.flag.SetSchedulerActive(context.WithoutCancel(ctx), false); err != nil {
			s.logger.Warn("failed to clear schedule flag", logging.Error(err))
		}
		s.logger.Info("all songs processed, schedule stopped",
			logging.String(logging.FieldEventType, "schedule_complete"),
			logging.Int("total", res.Total))
		return true
	}
	return false
}
