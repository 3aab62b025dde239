package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PassRunner runs one population pass.
type PassRunner interface {
	SyncAll(ctx context.Context) (SyncSummary, error)
}

// Scheduler triggers a pass on a fixed interval.
type Scheduler struct {
	runner     PassRunner
	interval   time.Duration
	runOnStart bool
	log        zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(runner PassRunner, interval time.Duration, runOnStart bool, log zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		runOnStart: runOnStart,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start runs the loop in the background until Stop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.Run(s.ctx)
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.log.Info().Msg("Sync scheduler stopped")
}

// Run blocks until ctx is done. It always returns nil so it can sit in an
// errgroup without tearing down its siblings on a failed pass.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Dur("interval", s.interval).Msg("Sync scheduler started")

	if s.runOnStart {
		s.trigger(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.trigger(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context) {
	if _, err := s.runner.SyncAll(ctx); err != nil && ctx.Err() == nil {
		s.log.Error().Err(err).Msg("Scheduled role sync failed")
	}
}
