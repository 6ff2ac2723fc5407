package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dm/shardbal/internal/client"
	"github.com/dm/shardbal/internal/format"
	"github.com/dm/shardbal/internal/metrics"
	"github.com/dm/shardbal/internal/model"
)

// DefaultIndexPattern matches the APM trace data stream backing indices.
const DefaultIndexPattern = ".ds-traces-apm-*"

// ErrRerouteRejected is returned when the cluster did not acknowledge a move.
var ErrRerouteRejected = errors.New("reroute not acknowledged")

// KeepPolicy decides which primary stays on an overloaded node.
type KeepPolicy string

const (
	// KeepFirst keeps the first primary listed for the node and moves the rest
	// in listing order.
	KeepFirst KeepPolicy = "first"
	// KeepLargest keeps the largest primary and moves the rest smallest first.
	KeepLargest KeepPolicy = "largest"
)

// ParseKeepPolicy validates a policy name. Empty selects KeepFirst.
func ParseKeepPolicy(s string) (KeepPolicy, error) {
	switch KeepPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", KeepFirst:
		return KeepFirst, nil
	case KeepLargest:
		return KeepLargest, nil
	default:
		return "", fmt.Errorf("unknown keep policy %q (want %q or %q)", s, KeepFirst, KeepLargest)
	}
}

// Balancer runs balancing passes against one cluster.
type Balancer struct {
	Client     client.ESClient
	Monitor    *Monitor
	Pattern    string
	KeepPolicy KeepPolicy
	DryRun     bool
	Clock      Clock
	Logger     zerolog.Logger
	Metrics    metrics.Recorder
	Sink       Sink
}

func (b *Balancer) clock() Clock {
	if b.Clock == nil {
		return RealClock()
	}
	return b.Clock
}

func (b *Balancer) recorder() metrics.Recorder {
	if b.Metrics == nil {
		return metrics.Nop()
	}
	return b.Metrics
}

func (b *Balancer) emit(ev any) {
	if b.Sink != nil {
		b.Sink(ev)
	}
}

// RunPass performs one balancing pass: it finds the newest matching index,
// then moves every primary beyond the one kept on each node to the best
// scoring other node. Fetch failures abort the pass; per-shard failures are
// counted and the pass continues. Moves already made are never rolled back.
func (b *Balancer) RunPass(ctx context.Context) (model.PassReport, error) {
	clock := b.clock()
	report := model.PassReport{StartedAt: clock.Now(), DryRun: b.DryRun}
	b.emit(model.PassStarted{At: report.StartedAt})

	err := b.runPass(ctx, &report)
	report.Duration = clock.Now().Sub(report.StartedAt)

	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case report.NoIndex:
		result = "noop"
	}
	b.recorder().PassCompleted(result)
	b.emit(model.PassFinished{Report: report, Err: err})

	if err == nil {
		b.Logger.Info().
			Str("index", report.Index).
			Int("migrated", report.Migrated).
			Int("failed", report.Failed).
			Int("unplaced", report.Unplaced).
			Int("skipped", len(report.Skipped)).
			Dur("duration", report.Duration).
			Msg("balancing pass finished")
	}
	return report, err
}

func (b *Balancer) runPass(ctx context.Context, report *model.PassReport) error {
	pattern := b.Pattern
	if pattern == "" {
		pattern = DefaultIndexPattern
	}

	index, err := LatestIndex(ctx, b.Client, pattern)
	if err != nil {
		return err
	}
	if index == "" {
		report.NoIndex = true
		b.Logger.Info().Str("pattern", pattern).Msg("no index matches pattern, nothing to do")
		return nil
	}
	report.Index = index
	log := b.Logger.With().Str("index", index).Logger()

	rows, err := b.Client.GetShards(ctx, index)
	if err != nil {
		return fmt.Errorf("GetShards: %w", err)
	}
	primaries, skipped := model.Partition(DecodePrimaries(log, rows))
	logSkipped(log, "shard", skipped)
	report.Skipped = append(report.Skipped, skipped...)
	byNode := GroupPrimaries(primaries)

	stats, err := b.Client.GetNodeStats(ctx)
	if err != nil {
		return fmt.Errorf("GetNodeStats: %w", err)
	}
	loads, skipped := model.Partition(DecodeNodeLoads(stats))
	logSkipped(log, "node", skipped)
	report.Skipped = append(report.Skipped, skipped...)

	counts := byNode.Counts()
	b.summarize(log, index, loads, counts)

	byName := make(map[string]model.NodeLoad, len(loads))
	for _, l := range loads {
		byName[l.Name] = l
	}

	ledger := model.AssignmentLedger{}
	for _, node := range byNode.Nodes() {
		held := byNode.Count(node)
		if held <= 1 {
			continue
		}
		log.Info().
			Str("node", node).
			Int("primaries", held).
			Msg("node holds more than one primary, rebalancing")
		reason := fmt.Sprintf("%s holds %d of %d primaries", node, held, byNode.Total())

		for _, shard := range movers(byNode.Shards(node), b.KeepPolicy) {
			if err := ctx.Err(); err != nil {
				return err
			}
			target, ok := b.selectTarget(log, loads, node, counts, ledger)
			if !ok {
				report.Unplaced++
				log.Warn().Str("node", node).Int("shard", shard.Shard).Msg("no target node available for shard")
				continue
			}
			ledger.Assign(target)

			src, known := byName[node]
			if !known {
				src = model.NodeLoad{Name: node}
			}
			move := plannedMove{Shard: shard, From: src, To: byName[target], Reason: reason, SourceKnown: known}
			if err := b.moveShard(ctx, move); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				report.Failed++
				log.Error().Err(err).
					Int("shard", shard.Shard).
					Str("from", node).
					Str("to", target).
					Msg("shard move failed")
				continue
			}
			report.Migrated++
		}
	}
	return nil
}

// summarize logs the per-node view at the start of a pass and publishes it.
func (b *Balancer) summarize(log zerolog.Logger, index string, loads []model.NodeLoad, counts map[string]int) {
	rec := b.recorder()
	rec.ResetNodes()
	for _, l := range loads {
		log.Info().
			Str("node", l.Name).
			Int("primaries", counts[l.Name]).
			Str("cpu", format.FormatPercent(l.CPUPercent)).
			Str("heap", format.FormatPercent(l.HeapPercent)).
			Str("disk_used", format.FormatPercent(100-l.DiskFreePercent)).
			Msg("node status")
		rec.NodePrimaryShards(l.Name, counts[l.Name])
		rec.NodeLoadScore(l.Name, LoadScore(l))
	}

	primaries := make(map[string]int, len(counts))
	for node, n := range counts {
		primaries[node] = n
	}
	b.emit(model.ClusterSummary{
		Index:     index,
		Loads:     append([]model.NodeLoad(nil), loads...),
		Primaries: primaries,
	})
}

func (b *Balancer) selectTarget(log zerolog.Logger, loads []model.NodeLoad, from string, counts map[string]int, ledger model.AssignmentLedger) (string, bool) {
	cands := Score(loads, from, counts, ledger)
	for _, c := range cands {
		log.Debug().
			Str("node", c.Node).
			Float64("load", c.Load).
			Int("effective_primaries", c.Effective).
			Float64("shard_score", c.ShardScore).
			Float64("final", c.Final).
			Msg("candidate score")
	}
	win, ok := best(cands)
	if !ok {
		return "", false
	}
	log.Info().
		Str("from", from).
		Str("node", win.Node).
		Float64("load", win.Load).
		Int("effective_primaries", win.Effective).
		Float64("final", win.Final).
		Msg("selected target node")
	return win.Node, true
}

// movers returns the shards to move off a node under policy.
func movers(shards []model.ShardRecord, policy KeepPolicy) []model.ShardRecord {
	if len(shards) <= 1 {
		return nil
	}
	if policy != KeepLargest {
		return append([]model.ShardRecord(nil), shards[1:]...)
	}
	keep := 0
	for i, s := range shards {
		if s.SizeBytes > shards[keep].SizeBytes {
			keep = i
		}
	}
	out := make([]model.ShardRecord, 0, len(shards)-1)
	out = append(out, shards[:keep]...)
	out = append(out, shards[keep+1:]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SizeBytes < out[j].SizeBytes })
	return out
}

// plannedMove is one primary the pass decided to relocate. SourceKnown is
// false when the source node's stats were skipped while decoding.
type plannedMove struct {
	Shard       model.ShardRecord
	From        model.NodeLoad
	To          model.NodeLoad
	Reason      string
	SourceKnown bool
}

// logDetails records both nodes' resource usage and why the shard moves.
func (m plannedMove) logDetails(log zerolog.Logger) {
	ev := log.Info().
		Str("size", format.FormatBytes(m.Shard.SizeBytes)).
		Str("docs", format.FormatNumber(m.Shard.Docs)).
		Str("reason", m.Reason).
		Str("to_cpu", format.FormatPercent(m.To.CPUPercent)).
		Str("to_heap", format.FormatPercent(m.To.HeapPercent)).
		Str("to_disk_used", format.FormatPercent(100-m.To.DiskFreePercent))
	if m.SourceKnown {
		ev = ev.
			Str("from_cpu", format.FormatPercent(m.From.CPUPercent)).
			Str("from_heap", format.FormatPercent(m.From.HeapPercent)).
			Str("from_disk_used", format.FormatPercent(100-m.From.DiskFreePercent))
	}
	ev.Msg("moving primary shard")
}

// moveShard issues the reroute for one primary and waits for it to finish.
func (b *Balancer) moveShard(ctx context.Context, m plannedMove) error {
	shard, from, to := m.Shard, m.From.Name, m.To.Name
	clock := b.clock()
	log := b.Logger.With().
		Str("index", shard.Index).
		Int("shard", shard.Shard).
		Str("from", from).
		Str("to", to).
		Logger()

	started := clock.Now()
	b.emit(model.MigrationStarted{
		Index:     shard.Index,
		Shard:     shard.Shard,
		From:      from,
		To:        to,
		SizeBytes: shard.SizeBytes,
		At:        started,
	})
	finish := func(health string, err error) error {
		elapsed := clock.Now().Sub(started)
		b.recorder().MigrationCompleted(migrationResult(err, b.DryRun), elapsed)
		b.emit(model.MigrationFinished{
			Index:   shard.Index,
			Shard:   shard.Shard,
			From:    from,
			To:      to,
			Elapsed: elapsed,
			Health:  health,
			Err:     err,
		})
		return err
	}

	m.logDetails(log)
	if b.DryRun {
		log.Info().Msg("dry run, move not issued")
		return finish("", nil)
	}

	resp, err := b.Client.Reroute(ctx, client.MoveCommand{
		Index:    shard.Index,
		Shard:    shard.Shard,
		FromNode: from,
		ToNode:   to,
	})
	if err != nil {
		return finish("", fmt.Errorf("Reroute: %w", err))
	}
	if resp == nil || !resp.Acknowledged {
		return finish("", ErrRerouteRejected)
	}

	res, err := b.Monitor.Watch(ctx, MigrationTarget{
		Index:      shard.Index,
		Shard:      shard.Shard,
		TargetNode: to,
		TargetIP:   m.To.IP,
	})
	if err != nil {
		return finish("", err)
	}

	var status string
	health, err := b.Client.GetClusterHealth(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("could not fetch cluster health after move")
	case health.Status != "green":
		status = health.Status
		log.Warn().Str("status", status).Msg("move finished but cluster is not green")
	default:
		status = health.Status
		log.Info().Msg("cluster is green, move finished")
	}
	log.Info().Dur("elapsed", res.Elapsed).Msg("primary shard moved")
	return finish(status, nil)
}

func migrationResult(err error, dryRun bool) string {
	switch {
	case err == nil && dryRun:
		return "dry_run"
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRerouteRejected):
		return "rejected"
	case errors.Is(err, ErrMigrationTimedOut):
		return "timeout"
	default:
		return "error"
	}
}

// LatestIndex returns the lexicographically greatest index matching pattern,
// or "" when none exists. Only names sharing the pattern's literal prefix
// are considered.
func LatestIndex(ctx context.Context, c client.ESClient, pattern string) (string, error) {
	indices, err := c.GetIndices(ctx, pattern)
	if err != nil {
		return "", fmt.Errorf("GetIndices: %w", err)
	}
	prefix := pattern
	if i := strings.IndexAny(pattern, "*?"); i >= 0 {
		prefix = pattern[:i]
	}
	latest := ""
	for _, idx := range indices {
		if strings.HasPrefix(idx.Index, prefix) && idx.Index > latest {
			latest = idx.Index
		}
	}
	return latest, nil
}
