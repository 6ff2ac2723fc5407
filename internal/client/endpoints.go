package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const (
	endpointClusterHealth = "/_cluster/health?filter_path=cluster_name,status,number_of_nodes,active_shards,relocating_shards,initializing_shards,unassigned_shards"
	endpointNodeStats     = "/_nodes/stats/os,jvm,fs?filter_path=nodes.*.name,nodes.*.host,nodes.*.ip,nodes.*.os.cpu.percent,nodes.*.jvm.mem.heap_used_percent,nodes.*.jvm.mem.heap_used_in_bytes,nodes.*.jvm.mem.heap_max_in_bytes,nodes.*.fs.total.total_in_bytes,nodes.*.fs.total.available_in_bytes"
	endpointReroute       = "/_cluster/reroute?metric=none"

	indicesColumns  = "index,health,status,pri,rep,docs.count,store.size"
	shardsColumns   = "index,shard,prirep,state,docs,store,ip,node"
	recoveryColumns = "index,shard,time,type,stage,source_host,source_node,target_host,target_node,bytes_recovered,bytes_total,translog_ops_recovered,translog_ops"
)

// GetClusterHealth fetches cluster health from /_cluster/health.
func (c *DefaultClient) GetClusterHealth(ctx context.Context) (*ClusterHealth, error) {
	var result ClusterHealth
	if err := c.getJSON(ctx, endpointClusterHealth, &result); err != nil {
		return nil, fmt.Errorf("GetClusterHealth: %w", err)
	}
	return &result, nil
}

// GetIndices lists the indices matching pattern from /_cat/indices, sorted
// by name.
func (c *DefaultClient) GetIndices(ctx context.Context, pattern string) ([]IndexInfo, error) {
	path := "/_cat/indices/" + url.PathEscape(pattern) +
		"?format=json&expand_wildcards=all&h=" + indicesColumns + "&s=index"
	var result []IndexInfo
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("GetIndices: %w", err)
	}
	return result, nil
}

// GetNodeStats fetches per-node OS, JVM and filesystem statistics from /_nodes/stats.
func (c *DefaultClient) GetNodeStats(ctx context.Context) (*NodeStatsResponse, error) {
	var result NodeStatsResponse
	if err := c.getJSON(ctx, endpointNodeStats, &result); err != nil {
		return nil, fmt.Errorf("GetNodeStats: %w", err)
	}
	return &result, nil
}

// GetShards fetches every shard copy of index from /_cat/shards.
func (c *DefaultClient) GetShards(ctx context.Context, index string) ([]ShardInfo, error) {
	path := "/_cat/shards/" + url.PathEscape(index) + "?format=json&h=" + shardsColumns
	var result []ShardInfo
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("GetShards: %w", err)
	}
	return result, nil
}

// GetRecoveries fetches the active recoveries of index from /_cat/recovery.
func (c *DefaultClient) GetRecoveries(ctx context.Context, index string) ([]RecoveryInfo, error) {
	path := "/_cat/recovery/" + url.PathEscape(index) +
		"?format=json&active_only=true&h=" + recoveryColumns
	var result []RecoveryInfo
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("GetRecoveries: %w", err)
	}
	return result, nil
}

// Reroute submits a single move command to /_cluster/reroute. A response
// with acknowledged=false is returned without error; interpreting it is the
// caller's job.
func (c *DefaultClient) Reroute(ctx context.Context, cmd MoveCommand) (*RerouteResponse, error) {
	payload, err := json.Marshal(RerouteRequest{
		Commands: []RerouteCommand{{Move: &cmd}},
	})
	if err != nil {
		return nil, fmt.Errorf("Reroute encode: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, endpointReroute, payload)
	if err != nil {
		return nil, fmt.Errorf("Reroute: %w", err)
	}

	var result RerouteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("Reroute decode: %w", err)
	}
	return &result, nil
}

// getJSON performs a retried GET and decodes the body into out.
func (c *DefaultClient) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
