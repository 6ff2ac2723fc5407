package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dm/shardbal/internal/client"
	"github.com/dm/shardbal/internal/format"
	"github.com/dm/shardbal/internal/model"
)

// DecodeNodeLoads converts a node stats response into per-node load records,
// sorted by node name. Nodes missing any of cpu, heap or disk figures, or
// reporting a zero disk total, are skipped with a reason.
func DecodeNodeLoads(resp *client.NodeStatsResponse) []model.Record[model.NodeLoad] {
	if resp == nil {
		return nil
	}
	ids := make([]string, 0, len(resp.Nodes))
	for id := range resp.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := resp.Nodes[ids[i]], resp.Nodes[ids[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return ids[i] < ids[j]
	})

	recs := make([]model.Record[model.NodeLoad], 0, len(ids))
	for _, id := range ids {
		recs = append(recs, decodeNodeLoad(id, resp.Nodes[id]))
	}
	return recs
}

func decodeNodeLoad(id string, n client.NodeStats) model.Record[model.NodeLoad] {
	label := n.Name
	if label == "" {
		return model.Skipped[model.NodeLoad](fmt.Sprintf("node %s: missing name", id))
	}
	if n.OS == nil || n.OS.CPU == nil || n.OS.CPU.Percent == nil {
		return model.Skipped[model.NodeLoad](fmt.Sprintf("node %s: missing os.cpu.percent", label))
	}
	if n.JVM == nil || n.JVM.Mem == nil || n.JVM.Mem.HeapUsedPercent == nil {
		return model.Skipped[model.NodeLoad](fmt.Sprintf("node %s: missing jvm.mem.heap_used_percent", label))
	}
	if n.FS == nil || n.FS.Total == nil || n.FS.Total.TotalInBytes == nil || n.FS.Total.AvailableInBytes == nil {
		return model.Skipped[model.NodeLoad](fmt.Sprintf("node %s: missing fs.total", label))
	}
	total := *n.FS.Total.TotalInBytes
	if total <= 0 {
		return model.Skipped[model.NodeLoad](fmt.Sprintf("node %s: zero disk total", label))
	}

	ip := n.IP
	if ip == "" {
		ip = n.Host
	}
	return model.Ok(model.NodeLoad{
		Name:            n.Name,
		IP:              ip,
		CPUPercent:      float64(*n.OS.CPU.Percent),
		HeapPercent:     float64(*n.JVM.Mem.HeapUsedPercent),
		DiskFreePercent: float64(*n.FS.Total.AvailableInBytes) / float64(total) * 100,
	})
}

// DecodePrimaries converts cat-shards rows into primary shard records in
// response order. Replicas are ignored. Unassigned primaries and rows with a
// malformed shard number are skipped. Unparseable sizes count as 0 bytes.
func DecodePrimaries(log zerolog.Logger, rows []client.ShardInfo) []model.Record[model.ShardRecord] {
	recs := make([]model.Record[model.ShardRecord], 0, len(rows))
	for _, row := range rows {
		if row.PriRep != "p" {
			continue
		}
		shard, err := strconv.Atoi(strings.TrimSpace(row.Shard))
		if err != nil {
			recs = append(recs, model.Skipped[model.ShardRecord](
				fmt.Sprintf("shard %s/%q: malformed shard number", row.Index, row.Shard)))
			continue
		}
		if row.Node == "" {
			recs = append(recs, model.Skipped[model.ShardRecord](
				fmt.Sprintf("shard %s/%d: unassigned primary (%s)", row.Index, shard, row.State)))
			continue
		}
		recs = append(recs, model.Ok(model.ShardRecord{
			Index:     row.Index,
			Shard:     shard,
			Node:      row.Node,
			SizeBytes: format.SizeOrZero(log, row.Store),
			Docs:      parseCount(row.Docs),
		}))
	}
	return recs
}

// GroupPrimaries builds the node → primaries map from decoded shard records.
func GroupPrimaries(shards []model.ShardRecord) *model.NodeShardMap {
	m := model.NewNodeShardMap()
	for _, s := range shards {
		m.Add(s)
	}
	return m
}

// DecodeRecoveries converts active cat-recovery rows into snapshots.
func DecodeRecoveries(log zerolog.Logger, rows []client.RecoveryInfo) []model.Record[model.RecoverySnapshot] {
	recs := make([]model.Record[model.RecoverySnapshot], 0, len(rows))
	for _, row := range rows {
		shard, err := strconv.Atoi(strings.TrimSpace(row.Shard))
		if err != nil {
			recs = append(recs, model.Skipped[model.RecoverySnapshot](
				fmt.Sprintf("recovery %s/%q: malformed shard number", row.Index, row.Shard)))
			continue
		}
		recs = append(recs, model.Ok(model.RecoverySnapshot{
			Index:                row.Index,
			Shard:                shard,
			SourceNode:           row.SourceNode,
			TargetNode:           row.TargetNode,
			TargetHost:           row.TargetHost,
			Stage:                row.Stage,
			BytesRecovered:       format.SizeOrZero(log, row.BytesRecovered),
			BytesTotal:           format.SizeOrZero(log, row.BytesTotal),
			TranslogOpsRecovered: parseCount(row.TranslogOpsRecovered),
			TranslogOpsTotal:     parseCount(row.TranslogOps),
		}))
	}
	return recs
}

// parseCount parses a decimal count column; blanks and garbage become 0.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// logSkipped emits one warning for all records dropped by a decode step.
func logSkipped(log zerolog.Logger, what string, skipped []string) {
	if len(skipped) == 0 {
		return
	}
	log.Warn().Strs("reasons", skipped).Int("count", len(skipped)).Msgf("skipped %s records", what)
}
