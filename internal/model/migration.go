package model

import "time"

// MigrationState is the monitor's view of one shard move.
type MigrationState int

const (
	StateAwaitingStart MigrationState = iota
	StateCopying
	StateReplayingLog
	StateDone
)

func (s MigrationState) String() string {
	switch s {
	case StateAwaitingStart:
		return "awaiting-start"
	case StateCopying:
		return "copying"
	case StateReplayingLog:
		return "replaying-log"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// RecoverySnapshot is one poll of an active shard recovery.
type RecoverySnapshot struct {
	Index                string
	Shard                int
	SourceNode           string
	TargetNode           string
	TargetHost           string
	Stage                string
	BytesRecovered       int64
	BytesTotal           int64
	TranslogOpsRecovered int64
	TranslogOpsTotal     int64
}

// FilePercent returns file-copy progress; 100 when there is nothing to copy.
func (r RecoverySnapshot) FilePercent() float64 {
	if r.BytesTotal <= 0 {
		return 100
	}
	return float64(r.BytesRecovered) / float64(r.BytesTotal) * 100
}

// TranslogPercent returns translog replay progress; 100 when there is
// nothing to replay.
func (r RecoverySnapshot) TranslogPercent() float64 {
	if r.TranslogOpsTotal <= 0 {
		return 100
	}
	return float64(r.TranslogOpsRecovered) / float64(r.TranslogOpsTotal) * 100
}

// MigrationObservation is emitted whenever a migration's progress changes.
type MigrationObservation struct {
	Index           string
	Shard           int
	State           MigrationState
	Recovery        RecoverySnapshot
	FilePercent     float64
	TranslogPercent float64
	BytesPerSecond  float64
	Elapsed         time.Duration
}

// PassReport summarises one balancing pass.
type PassReport struct {
	Index     string
	StartedAt time.Time
	Duration  time.Duration
	NoIndex   bool // no index matched the pattern; nothing was done
	DryRun    bool // moves were decided but not issued
	Migrated  int
	Failed    int
	Unplaced  int      // shards for which no target node existed
	Skipped   []string // records dropped while decoding cluster responses
}
