package model

import "time"

// Events are published by the balancer to an optional sink (the TUI). They
// carry copies of per-cycle data and may be retained by the receiver.

// PassStarted marks the beginning of a balancing pass.
type PassStarted struct {
	At time.Time
}

// ClusterSummary describes the cluster as seen at the start of a pass.
type ClusterSummary struct {
	Index     string
	Loads     []NodeLoad
	Primaries map[string]int
}

// MigrationStarted is sent right before the reroute request.
type MigrationStarted struct {
	Index     string
	Shard     int
	From      string
	To        string
	SizeBytes int64
	At        time.Time
}

// MigrationProgress wraps a monitor observation.
type MigrationProgress struct {
	MigrationObservation
}

// MigrationFinished is sent when a move succeeded or failed.
type MigrationFinished struct {
	Index   string
	Shard   int
	From    string
	To      string
	Elapsed time.Duration
	Health  string // cluster status after the move; empty when unknown
	Err     error
}

// PassFinished carries the pass report, or the error that aborted the pass.
type PassFinished struct {
	Report PassReport
	Err    error
}
