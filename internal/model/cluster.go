package model

// NodeLoad is a per-cycle snapshot of one data node's resource usage.
type NodeLoad struct {
	Name            string
	IP              string
	CPUPercent      float64 // 0-100
	HeapPercent     float64 // 0-100
	DiskFreePercent float64 // 0-100
}

// ShardRecord describes one primary shard of the target index.
type ShardRecord struct {
	Index     string
	Shard     int
	Node      string
	SizeBytes int64
	Docs      int64
}

// NodeShardMap groups primary shards by the node hosting them. Nodes are
// kept in the order they were first seen, shards in the order they were
// added. It is rebuilt every cycle and never edited to reflect a move.
type NodeShardMap struct {
	order  []string
	shards map[string][]ShardRecord
}

// NewNodeShardMap returns an empty map.
func NewNodeShardMap() *NodeShardMap {
	return &NodeShardMap{shards: make(map[string][]ShardRecord)}
}

// Add appends rec to the list of its node.
func (m *NodeShardMap) Add(rec ShardRecord) {
	if _, ok := m.shards[rec.Node]; !ok {
		m.order = append(m.order, rec.Node)
	}
	m.shards[rec.Node] = append(m.shards[rec.Node], rec)
}

// Nodes returns node names in first-seen order.
func (m *NodeShardMap) Nodes() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Shards returns the primaries hosted on node.
func (m *NodeShardMap) Shards(node string) []ShardRecord {
	return m.shards[node]
}

// Count returns the number of primaries hosted on node.
func (m *NodeShardMap) Count(node string) int {
	return len(m.shards[node])
}

// Counts returns node → primary count.
func (m *NodeShardMap) Counts() map[string]int {
	out := make(map[string]int, len(m.shards))
	for node, list := range m.shards {
		out[node] = len(list)
	}
	return out
}

// Total returns the number of primaries across all nodes.
func (m *NodeShardMap) Total() int {
	n := 0
	for _, list := range m.shards {
		n += len(list)
	}
	return n
}

// AssignmentLedger counts the shards tentatively sent to each node during
// one balancing pass. The cluster has not confirmed these moves yet.
type AssignmentLedger map[string]int

// Assign records one more tentative shard for node.
func (l AssignmentLedger) Assign(node string) {
	l[node]++
}
