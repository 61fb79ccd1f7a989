// Package scheduler refreshes the balance aggregate in the background.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Personal-Hub-Backend/internal/balance"
)

// Scheduler runs the balance refresh job on a cron schedule.
type Scheduler struct {
	balance *balance.Service
	logger  zerolog.Logger
	cron    *cron.Cron

	mu      sync.Mutex
	running bool
}

// New creates a Scheduler for the given cron spec ("@every 15m", "0 * * * *", ...).
// The job is registered immediately; nothing runs until Start.
func New(spec string, balanceService *balance.Service, logger zerolog.Logger) (*Scheduler, error) {
	cronLog := cronLogger{logger: logger}
	s := &Scheduler{
		balance: balanceService,
		logger:  logger,
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid balance refresh schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start begins running the job. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true

	s.cron.Start()
	s.logger.Info().Msg("balance refresh scheduler started")
}

// Stop halts the schedule and waits for a running job to return, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info().Msg("balance refresh scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn().Msg("balance refresh scheduler did not stop in time")
	}
}

// RunOnce performs one scheduled check: an absent or stale aggregate starts a
// background refresh. The started task is returned, or nil when the aggregate is fresh.
func (s *Scheduler) RunOnce(ctx context.Context) *balance.RefreshTask {
	snap, ok := s.balance.Load(ctx)
	if ok && !snap.IsStale {
		s.logger.Debug().Time("last_updated", snap.LastUpdated).Msg("balance is fresh, skipping refresh")
		return nil
	}

	s.logger.Info().Bool("cached", ok).Msg("starting scheduled balance refresh")
	return s.balance.RefreshAsync(ctx)
}

// cronLogger forwards cron's own messages to zerolog. Info messages are
// scheduling chatter and go to debug.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
