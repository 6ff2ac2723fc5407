// Package metrics instruments the balancer. Components depend on the
// Recorder interface; the Prometheus implementation is only wired in when a
// metrics listener is configured.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives balancer measurements. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// ClusterRequest counts one logical cluster call; outcome is "ok" or "error".
	ClusterRequest(method, outcome string)
	// ClusterRetry counts one retried attempt.
	ClusterRetry()
	// PassCompleted counts one balancing pass; result is "ok", "noop" or "error".
	PassCompleted(result string)
	// MigrationCompleted counts one shard move and observes its duration.
	MigrationCompleted(result string, elapsed time.Duration)
	// NodePrimaryShards reports the primaries a node holds for the target index.
	NodePrimaryShards(node string, count int)
	// NodeLoadScore reports a node's load sub-score from the last pass.
	NodeLoadScore(node string, score float64)
	// ResetNodes drops every per-node series so nodes that left the cluster
	// stop being exported.
	ResetNodes()
}

type nopRecorder struct{}

func (nopRecorder) ClusterRequest(string, string)            {}
func (nopRecorder) ClusterRetry()                            {}
func (nopRecorder) PassCompleted(string)                     {}
func (nopRecorder) MigrationCompleted(string, time.Duration) {}
func (nopRecorder) NodePrimaryShards(string, int)            {}
func (nopRecorder) NodeLoadScore(string, float64)            {}
func (nopRecorder) ResetNodes()                              {}

// Nop returns a Recorder that discards everything.
func Nop() Recorder { return nopRecorder{} }

// Prometheus is a Recorder backed by Prometheus collectors.
type Prometheus struct {
	requests          *prometheus.CounterVec
	retries           prometheus.Counter
	passes            *prometheus.CounterVec
	migrations        *prometheus.CounterVec
	migrationDuration prometheus.Histogram
	nodePrimaries     *prometheus.GaugeVec
	nodeLoad          *prometheus.GaugeVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shardbal_cluster_requests_total",
			Help: "Cluster API calls by HTTP method and outcome.",
		}, []string{"method", "outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shardbal_cluster_retries_total",
			Help: "Cluster API attempts that were retried after a failure.",
		}),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shardbal_passes_total",
			Help: "Balancing passes by result.",
		}, []string{"result"}),
		migrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shardbal_migrations_total",
			Help: "Shard migrations by result.",
		}, []string{"result"}),
		migrationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shardbal_migration_duration_seconds",
			Help:    "Time from reroute to confirmed completion.",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		}),
		nodePrimaries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shardbal_node_primary_shards",
			Help: "Primary shards of the target index held per node.",
		}, []string{"node"}),
		nodeLoad: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shardbal_node_load_score",
			Help: "Weighted CPU/heap/disk load score per node (0-100).",
		}, []string{"node"}),
	}
	reg.MustRegister(
		p.requests, p.retries, p.passes, p.migrations,
		p.migrationDuration, p.nodePrimaries, p.nodeLoad,
	)
	return p
}

func (p *Prometheus) ClusterRequest(method, outcome string) {
	p.requests.WithLabelValues(method, outcome).Inc()
}

func (p *Prometheus) ClusterRetry() { p.retries.Inc() }

func (p *Prometheus) PassCompleted(result string) {
	p.passes.WithLabelValues(result).Inc()
}

func (p *Prometheus) MigrationCompleted(result string, elapsed time.Duration) {
	p.migrations.WithLabelValues(result).Inc()
	if result == "ok" {
		p.migrationDuration.Observe(elapsed.Seconds())
	}
}

func (p *Prometheus) NodePrimaryShards(node string, count int) {
	p.nodePrimaries.WithLabelValues(node).Set(float64(count))
}

func (p *Prometheus) NodeLoadScore(node string, score float64) {
	p.nodeLoad.WithLabelValues(node).Set(score)
}

func (p *Prometheus) ResetNodes() {
	p.nodePrimaries.Reset()
	p.nodeLoad.Reset()
}

// Handler serves the metrics gathered by g in the text exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
