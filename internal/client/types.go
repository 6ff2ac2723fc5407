package client

// ClusterHealth represents the response from /_cluster/health.
type ClusterHealth struct {
	ClusterName        string `json:"cluster_name"`
	Status             string `json:"status"`
	NumberOfNodes      int    `json:"number_of_nodes"`
	ActiveShards       int    `json:"active_shards"`
	RelocatingShards   int    `json:"relocating_shards"`
	InitializingShards int    `json:"initializing_shards"`
	UnassignedShards   int    `json:"unassigned_shards"`
}

// IndexInfo represents a single index entry from /_cat/indices.
type IndexInfo struct {
	Index     string `json:"index"`
	Health    string `json:"health"`
	Status    string `json:"status"`
	Pri       string `json:"pri"`
	Rep       string `json:"rep"`
	DocsCount string `json:"docs.count"`
	StoreSize string `json:"store.size"`
}

// NodeStatsResponse represents the response from /_nodes/stats.
type NodeStatsResponse struct {
	Nodes map[string]NodeStats `json:"nodes"`
}

// NodeStats holds the per-node load data used for placement decisions.
// Leaf values are pointers so a field the node did not report can be told
// apart from a zero reading.
type NodeStats struct {
	Name string        `json:"name"`
	Host string        `json:"host"`
	IP   string        `json:"ip"`
	OS   *NodeOSStats  `json:"os,omitempty"`
	JVM  *NodeJVMStats `json:"jvm,omitempty"`
	FS   *NodeFSStats  `json:"fs,omitempty"`
}

// NodeOSStats holds OS-level metrics.
type NodeOSStats struct {
	CPU *NodeCPUStats `json:"cpu"`
}

// NodeCPUStats holds the node's recent CPU usage.
type NodeCPUStats struct {
	Percent *int `json:"percent"`
}

// NodeJVMStats holds JVM heap metrics.
type NodeJVMStats struct {
	Mem *NodeJVMMem `json:"mem"`
}

// NodeJVMMem holds heap usage.
type NodeJVMMem struct {
	HeapUsedPercent *int  `json:"heap_used_percent"`
	HeapUsedInBytes int64 `json:"heap_used_in_bytes"`
	HeapMaxInBytes  int64 `json:"heap_max_in_bytes"`
}

// NodeFSStats holds filesystem metrics.
type NodeFSStats struct {
	Total *NodeFSTotal `json:"total"`
}

// NodeFSTotal holds disk totals summed over all data paths.
type NodeFSTotal struct {
	TotalInBytes     *int64 `json:"total_in_bytes"`
	AvailableInBytes *int64 `json:"available_in_bytes"`
}

// ShardInfo represents a single shard entry from /_cat/shards. Node is empty
// for unassigned shards.
type ShardInfo struct {
	Index  string `json:"index"`
	Shard  string `json:"shard"`
	PriRep string `json:"prirep"`
	State  string `json:"state"`
	Docs   string `json:"docs"`
	Store  string `json:"store"`
	IP     string `json:"ip"`
	Node   string `json:"node"`
}

// RecoveryInfo represents a single entry from /_cat/recovery. Byte columns
// are human sizes ("1.2mb"), op counts are decimal strings.
type RecoveryInfo struct {
	Index                string `json:"index"`
	Shard                string `json:"shard"`
	Time                 string `json:"time"`
	Type                 string `json:"type"`
	Stage                string `json:"stage"`
	SourceHost           string `json:"source_host"`
	SourceNode           string `json:"source_node"`
	TargetHost           string `json:"target_host"`
	TargetNode           string `json:"target_node"`
	BytesRecovered       string `json:"bytes_recovered"`
	BytesTotal           string `json:"bytes_total"`
	TranslogOpsRecovered string `json:"translog_ops_recovered"`
	TranslogOps          string `json:"translog_ops"`
}

// MoveCommand relocates one shard copy between two nodes.
type MoveCommand struct {
	Index    string `json:"index"`
	Shard    int    `json:"shard"`
	FromNode string `json:"from_node"`
	ToNode   string `json:"to_node"`
}

// RerouteCommand is one entry of a /_cluster/reroute request.
type RerouteCommand struct {
	Move *MoveCommand `json:"move,omitempty"`
}

// RerouteRequest is the body of POST /_cluster/reroute.
type RerouteRequest struct {
	Commands []RerouteCommand `json:"commands"`
}

// RerouteResponse is the (state-less) response to a reroute request.
type RerouteResponse struct {
	Acknowledged bool `json:"acknowledged"`
}
