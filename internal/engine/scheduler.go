package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dm/shardbal/internal/model"
)

// DefaultInterval is the wait between balancing passes.
const DefaultInterval = 60 * time.Second

// PassRunner runs one balancing pass. *Balancer implements it.
type PassRunner interface {
	RunPass(ctx context.Context) (model.PassReport, error)
}

// Scheduler runs balancing passes forever, one at a time.
type Scheduler struct {
	Runner   PassRunner
	Interval time.Duration
	RunOnce  bool
	Clock    Clock
	Logger   zerolog.Logger

	initOnce sync.Once
	trigger  chan struct{}
}

func (s *Scheduler) triggers() chan struct{} {
	s.initOnce.Do(func() { s.trigger = make(chan struct{}, 1) })
	return s.trigger
}

// Trigger asks the scheduler to start the next pass without waiting for the
// interval. Triggers arriving while a pass runs are coalesced into one.
func (s *Scheduler) Trigger() {
	select {
	case s.triggers() <- struct{}{}:
	default:
	}
}

// Run executes passes until ctx is cancelled, then returns nil. Pass errors
// and panics are logged and never stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	clock := s.Clock
	if clock == nil {
		clock = RealClock()
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	if ctx.Err() != nil {
		return nil
	}
	for {
		s.Logger.Info().Msg("starting balancing pass")
		err := s.runPass(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			s.Logger.Error().Err(err).Msg("balancing pass failed")
		}
		if s.RunOnce {
			return nil
		}

		s.Logger.Info().Dur("interval", interval).Msg("waiting for next pass")
		select {
		case <-ctx.Done():
			return nil
		case <-s.triggers():
			s.Logger.Info().Msg("pass requested")
		case <-clock.After(interval):
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error().Str("stack", string(debug.Stack())).Msgf("balancing pass panicked: %v", r)
			err = fmt.Errorf("pass panicked: %v", r)
		}
	}()
	_, err = s.Runner.RunPass(ctx)
	return err
}
