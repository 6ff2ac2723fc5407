package engine

import "github.com/dm/shardbal/internal/model"

// Placement weights. Lower scores are better.
const (
	cpuWeight   = 0.4
	heapWeight  = 0.4
	diskWeight  = 0.2
	loadWeight  = 0.6
	shardWeight = 0.4
)

// Candidate is the score breakdown of one possible destination node.
type Candidate struct {
	Node       string
	Load       float64
	Effective  int // primaries hosted plus primaries assigned this pass
	ShardScore float64
	Final      float64
}

// LoadScore combines a node's cpu, heap and disk usage into a 0-100 figure.
func LoadScore(n model.NodeLoad) float64 {
	return cpuWeight*n.CPUPercent + heapWeight*n.HeapPercent + diskWeight*(100-n.DiskFreePercent)
}

// Score ranks every node in loads except excluded, in loads order.
// Shard counts are the hosted primaries plus the tentative assignments in ledger.
func Score(loads []model.NodeLoad, excluded string, shardCounts map[string]int, ledger model.AssignmentLedger) []Candidate {
	effective := make(map[string]int, len(shardCounts)+len(ledger))
	for node, n := range shardCounts {
		effective[node] += n
	}
	for node, n := range ledger {
		effective[node] += n
	}
	maxShards := 1
	for _, n := range effective {
		if n > maxShards {
			maxShards = n
		}
	}

	out := make([]Candidate, 0, len(loads))
	for _, l := range loads {
		if l.Name == excluded {
			continue
		}
		eff := effective[l.Name]
		load := LoadScore(l)
		shardScore := float64(eff) / float64(maxShards) * 100
		out = append(out, Candidate{
			Node:       l.Name,
			Load:       load,
			Effective:  eff,
			ShardScore: shardScore,
			Final:      loadWeight*load + shardWeight*shardScore,
		})
	}
	return out
}

// best returns the strictly lowest-scoring candidate; ties go to the first.
func best(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	win := cands[0]
	for _, c := range cands[1:] {
		if c.Final < win.Final {
			win = c
		}
	}
	return win, true
}

// SelectTarget picks the destination node for a shard leaving excluded.
// It returns false when no other node is available.
func SelectTarget(loads []model.NodeLoad, excluded string, shardCounts map[string]int, ledger model.AssignmentLedger) (string, bool) {
	c, ok := best(Score(loads, excluded, shardCounts, ledger))
	return c.Node, ok
}
