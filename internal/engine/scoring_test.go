package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/shardbal/internal/model"
)

func TestLoadScore(t *testing.T) {
	assert.InDelta(t, 50.0, LoadScore(load("a", 50, 50, 50)), 1e-9)
	assert.InDelta(t, 0.0, LoadScore(load("a", 0, 0, 100)), 1e-9)
	assert.InDelta(t, 100.0, LoadScore(load("a", 100, 100, 0)), 1e-9)
}

func TestScore_Breakdown(t *testing.T) {
	loads := []model.NodeLoad{load("a", 50, 50, 50), load("b", 10, 20, 80)}
	counts := map[string]int{"a": 2, "b": 1}
	ledger := model.AssignmentLedger{"b": 1}

	cands := Score(loads, "", counts, ledger)
	require.Len(t, cands, 2)

	// a: effective 2, b: effective 2, max 2
	assert.Equal(t, "a", cands[0].Node)
	assert.Equal(t, 2, cands[0].Effective)
	assert.InDelta(t, 100.0, cands[0].ShardScore, 1e-9)
	assert.InDelta(t, 0.6*50+0.4*100, cands[0].Final, 1e-9)

	assert.Equal(t, "b", cands[1].Node)
	assert.Equal(t, 2, cands[1].Effective)
	assert.InDelta(t, 0.4*10+0.4*20+0.2*20, cands[1].Load, 1e-9)
}

func TestSelectTarget_NeverReturnsExcluded(t *testing.T) {
	loads := []model.NodeLoad{load("a", 0, 0, 100), load("b", 90, 90, 10)}

	got, ok := SelectTarget(loads, "a", map[string]int{"a": 5}, model.AssignmentLedger{})
	require.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestSelectTarget_NoCandidate(t *testing.T) {
	got, ok := SelectTarget([]model.NodeLoad{load("a", 1, 1, 99)}, "a", nil, model.AssignmentLedger{})
	assert.False(t, ok)
	assert.Empty(t, got)

	got, ok = SelectTarget(nil, "a", nil, nil)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestSelectTarget_TieGoesToFirst(t *testing.T) {
	loads := []model.NodeLoad{load("x", 0, 0, 100), load("b", 20, 20, 80), load("c", 20, 20, 80)}
	got, ok := SelectTarget(loads, "x", nil, nil)
	require.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestSelectTarget_MonotonicInCPU(t *testing.T) {
	for cpu := 0.0; cpu <= 100; cpu += 10 {
		loads := []model.NodeLoad{load("b", cpu, 30, 70), load("c", 30, 30, 70)}
		got, _ := SelectTarget(loads, "a", nil, nil)
		if cpu < 30 {
			assert.Equal(t, "b", got, "cpu=%v", cpu)
		} else if cpu > 30 {
			assert.Equal(t, "c", got, "cpu=%v", cpu)
		}
	}
}

func TestSelectTarget_MonotonicInHeap(t *testing.T) {
	loads := []model.NodeLoad{load("b", 30, 80, 70), load("c", 30, 40, 70)}
	got, _ := SelectTarget(loads, "a", nil, nil)
	assert.Equal(t, "c", got)

	lower := Score([]model.NodeLoad{load("b", 30, 40, 70)}, "", nil, nil)[0].Final
	higher := Score([]model.NodeLoad{load("b", 30, 41, 70)}, "", nil, nil)[0].Final
	assert.Greater(t, higher, lower)
}

func TestSelectTarget_MonotonicInShardCount(t *testing.T) {
	loads := []model.NodeLoad{load("b", 30, 30, 70), load("c", 30, 30, 70)}
	got, _ := SelectTarget(loads, "a", map[string]int{"a": 4, "b": 3, "c": 1}, nil)
	assert.Equal(t, "c", got)

	got, _ = SelectTarget(loads, "a", map[string]int{"a": 4, "b": 1, "c": 3}, nil)
	assert.Equal(t, "b", got)
}

func TestSelectTarget_LedgerBias(t *testing.T) {
	loads := []model.NodeLoad{load("b", 30, 30, 70), load("c", 30, 30, 70)}
	counts := map[string]int{"a": 3}

	got, _ := SelectTarget(loads, "a", counts, model.AssignmentLedger{})
	assert.Equal(t, "b", got)

	got, _ = SelectTarget(loads, "a", counts, model.AssignmentLedger{"b": 1})
	assert.Equal(t, "c", got)
}

func TestSelectTarget_LoadOutweighsSmallShardGap(t *testing.T) {
	// b holds one more primary but is far less loaded.
	loads := []model.NodeLoad{load("b", 5, 10, 90), load("c", 90, 85, 20)}
	got, _ := SelectTarget(loads, "a", map[string]int{"a": 4, "b": 1, "c": 0}, nil)
	assert.Equal(t, "b", got)
}

func TestScore_MaxShardsFloor(t *testing.T) {
	cands := Score([]model.NodeLoad{load("b", 10, 10, 90)}, "a", map[string]int{}, model.AssignmentLedger{})
	require.Len(t, cands, 1)
	assert.Equal(t, 0.0, cands[0].ShardScore)
	assert.InDelta(t, 0.6*LoadScore(load("b", 10, 10, 90)), cands[0].Final, 1e-9)
}
