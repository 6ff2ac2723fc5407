package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dm/shardbal/internal/client"
	"github.com/dm/shardbal/internal/format"
	"github.com/dm/shardbal/internal/model"
)

// Default monitor poll intervals.
const (
	DefaultAwaitInterval    = 2 * time.Second
	DefaultProgressInterval = 10 * time.Second
	DefaultErrorInterval    = 2 * time.Second
)

// ErrMigrationTimedOut matches any *MigrationTimedOutError.
var ErrMigrationTimedOut = errors.New("migration timed out")

// MigrationTimedOutError is returned when a migration outlives Monitor.MaxDuration.
type MigrationTimedOutError struct {
	Index     string
	Shard     int
	Target    string
	After     time.Duration
	LastState model.MigrationState
}

func (e *MigrationTimedOutError) Error() string {
	return fmt.Sprintf("migration of %s[%d] to %s timed out after %s (state %s)",
		e.Index, e.Shard, e.Target, e.After, e.LastState)
}

// Is reports whether target is ErrMigrationTimedOut.
func (e *MigrationTimedOutError) Is(target error) bool {
	return target == ErrMigrationTimedOut
}

// MigrationTarget identifies the shard move being watched.
type MigrationTarget struct {
	Index      string
	Shard      int
	TargetNode string
	TargetIP   string
}

// MigrationResult describes a completed migration.
type MigrationResult struct {
	Elapsed time.Duration
	Polls   int
}

// Sink receives balancer events. A nil Sink discards them.
type Sink func(event any)

// Monitor follows one shard relocation until the cluster reports it done.
type Monitor struct {
	Client client.ESClient
	Clock  Clock

	AwaitInterval    time.Duration // no recovery seen yet
	ProgressInterval time.Duration // recovery in progress
	ErrorInterval    time.Duration // after a failed poll
	MaxDuration      time.Duration // 0 means unlimited

	Logger zerolog.Logger
	Sink   Sink
}

// watchState is the per-migration progress tracker.
type watchState struct {
	start        time.Time
	state        model.MigrationState
	polls        int
	seen         bool
	lastFile     float64
	lastTranslog float64
	lastBytes    int64
	lastAt       time.Time
}

func (m *Monitor) clock() Clock {
	if m.Clock == nil {
		return RealClock()
	}
	return m.Clock
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Watch polls recovery status until the move completes, the deadline passes
// or ctx is cancelled. Poll failures are logged and retried.
func (m *Monitor) Watch(ctx context.Context, t MigrationTarget) (MigrationResult, error) {
	clock := m.clock()
	log := m.Logger.With().
		Str("index", t.Index).
		Int("shard", t.Shard).
		Str("target", t.TargetNode).
		Logger()

	w := &watchState{
		start:        clock.Now(),
		state:        model.StateAwaitingStart,
		lastFile:     -1,
		lastTranslog: -1,
	}
	w.lastAt = w.start
	log.Info().Msg("monitoring shard migration")

	for {
		if err := ctx.Err(); err != nil {
			return w.result(clock.Now()), err
		}
		elapsed := clock.Now().Sub(w.start)
		if m.MaxDuration > 0 && elapsed >= m.MaxDuration {
			return w.result(clock.Now()), &MigrationTimedOutError{
				Index:     t.Index,
				Shard:     t.Shard,
				Target:    t.TargetNode,
				After:     elapsed,
				LastState: w.state,
			}
		}

		w.polls++
		done, wait := m.poll(ctx, log, t, w)
		if done {
			w.state = model.StateDone
			res := w.result(clock.Now())
			log.Info().
				Dur("elapsed", res.Elapsed).
				Int("polls", res.Polls).
				Msg("shard migration complete")
			return res, nil
		}

		if m.MaxDuration > 0 {
			if remaining := m.MaxDuration - clock.Now().Sub(w.start); wait > remaining {
				wait = remaining
			}
		}
		if err := sleep(ctx, clock, wait); err != nil {
			return w.result(clock.Now()), err
		}
	}
}

func (w *watchState) result(now time.Time) MigrationResult {
	return MigrationResult{Elapsed: now.Sub(w.start), Polls: w.polls}
}

// poll performs one observation and returns whether the move is done and how
// long to wait before the next poll.
func (m *Monitor) poll(ctx context.Context, log zerolog.Logger, t MigrationTarget, w *watchState) (bool, time.Duration) {
	rows, err := m.Client.GetRecoveries(ctx, t.Index)
	if err != nil {
		log.Warn().Err(err).Msg("polling recoveries failed")
		return false, orDefault(m.ErrorInterval, DefaultErrorInterval)
	}
	snaps, skipped := model.Partition(DecodeRecoveries(log, rows))
	logSkipped(log, "recovery", skipped)

	rec, ok := matchRecovery(snaps, t)
	if !ok {
		return m.checkPlaced(ctx, log, t, w)
	}
	w.seen = true

	file, translog := rec.FilePercent(), rec.TranslogPercent()
	w.state = model.StateCopying
	if file >= 100 {
		w.state = model.StateReplayingLog
	}

	if file != w.lastFile || translog != w.lastTranslog {
		now := m.clock().Now()
		var rate float64
		if dt := now.Sub(w.lastAt).Seconds(); dt > 0 {
			rate = float64(rec.BytesRecovered-w.lastBytes) / dt
		}
		obs := model.MigrationObservation{
			Index:           t.Index,
			Shard:           t.Shard,
			State:           w.state,
			Recovery:        rec,
			FilePercent:     file,
			TranslogPercent: translog,
			BytesPerSecond:  rate,
			Elapsed:         now.Sub(w.start),
		}
		log.Info().
			Str("source", rec.SourceNode).
			Str("target_host", rec.TargetHost).
			Str("stage", rec.Stage).
			Str("files", fmt.Sprintf("%.1f%% (%s/%s)", file,
				format.FormatBytes(rec.BytesRecovered), format.FormatBytes(rec.BytesTotal))).
			Str("translog", fmt.Sprintf("%.1f%% (%d/%d ops)", translog,
				rec.TranslogOpsRecovered, rec.TranslogOpsTotal)).
			Str("speed", format.FormatThroughput(rate)).
			Dur("elapsed", obs.Elapsed).
			Msg("migration progress")
		m.emit(model.MigrationProgress{MigrationObservation: obs})

		w.lastFile, w.lastTranslog = file, translog
		w.lastBytes, w.lastAt = rec.BytesRecovered, now
	}

	if strings.EqualFold(rec.Stage, "done") && file >= 100 && translog >= 100 {
		return true, 0
	}
	return false, orDefault(m.ProgressInterval, DefaultProgressInterval)
}

// checkPlaced handles a poll with no matching recovery: the move either has
// not started yet or already finished and left the active list.
func (m *Monitor) checkPlaced(ctx context.Context, log zerolog.Logger, t MigrationTarget, w *watchState) (bool, time.Duration) {
	rows, err := m.Client.GetShards(ctx, t.Index)
	if err != nil {
		log.Warn().Err(err).Msg("polling shard allocation failed")
		return false, orDefault(m.ErrorInterval, DefaultErrorInterval)
	}
	for _, row := range rows {
		if row.PriRep != "p" || row.Node != t.TargetNode {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(row.Shard)); err == nil && n == t.Shard {
			return true, 0
		}
	}
	if w.seen {
		return false, orDefault(m.ProgressInterval, DefaultProgressInterval)
	}
	log.Debug().Msg("waiting for migration to start")
	return false, orDefault(m.AwaitInterval, DefaultAwaitInterval)
}

// matchRecovery finds the recovery of t's shard. An entry naming the target
// node wins; failing that, an entry with no target node whose host is the
// target's IP is accepted.
func matchRecovery(snaps []model.RecoverySnapshot, t MigrationTarget) (model.RecoverySnapshot, bool) {
	byHost := -1
	for i, s := range snaps {
		if s.Shard != t.Shard || (s.Index != "" && s.Index != t.Index) {
			continue
		}
		if s.TargetNode == t.TargetNode {
			return s, true
		}
		if byHost < 0 && s.TargetNode == "" && t.TargetIP != "" && s.TargetHost == t.TargetIP {
			byHost = i
		}
	}
	if byHost >= 0 {
		return snaps[byHost], true
	}
	return model.RecoverySnapshot{}, false
}

func (m *Monitor) emit(ev any) {
	if m.Sink != nil {
		m.Sink(ev)
	}
}
