package engine

import (
	"context"
	"sync"
	"time"

	"github.com/dm/shardbal/internal/client"
	"github.com/dm/shardbal/internal/model"
)

// MockESClient implements client.ESClient for testing.
type MockESClient struct {
	HealthFn     func(ctx context.Context) (*client.ClusterHealth, error)
	IndicesFn    func(ctx context.Context, pattern string) ([]client.IndexInfo, error)
	NodeStatsFn  func(ctx context.Context) (*client.NodeStatsResponse, error)
	ShardsFn     func(ctx context.Context, index string) ([]client.ShardInfo, error)
	RecoveriesFn func(ctx context.Context, index string) ([]client.RecoveryInfo, error)
	RerouteFn    func(ctx context.Context, cmd client.MoveCommand) (*client.RerouteResponse, error)

	mu       sync.Mutex
	reroutes []client.MoveCommand
}

func (m *MockESClient) GetClusterHealth(ctx context.Context) (*client.ClusterHealth, error) {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return &client.ClusterHealth{ClusterName: "test", Status: "green"}, nil
}

func (m *MockESClient) GetIndices(ctx context.Context, pattern string) ([]client.IndexInfo, error) {
	if m.IndicesFn != nil {
		return m.IndicesFn(ctx, pattern)
	}
	return []client.IndexInfo{{Index: testIndex}}, nil
}

func (m *MockESClient) GetNodeStats(ctx context.Context) (*client.NodeStatsResponse, error) {
	if m.NodeStatsFn != nil {
		return m.NodeStatsFn(ctx)
	}
	return &client.NodeStatsResponse{Nodes: map[string]client.NodeStats{}}, nil
}

func (m *MockESClient) GetShards(ctx context.Context, index string) ([]client.ShardInfo, error) {
	if m.ShardsFn != nil {
		return m.ShardsFn(ctx, index)
	}
	return nil, nil
}

func (m *MockESClient) GetRecoveries(ctx context.Context, index string) ([]client.RecoveryInfo, error) {
	if m.RecoveriesFn != nil {
		return m.RecoveriesFn(ctx, index)
	}
	return nil, nil
}

func (m *MockESClient) Reroute(ctx context.Context, cmd client.MoveCommand) (*client.RerouteResponse, error) {
	m.mu.Lock()
	m.reroutes = append(m.reroutes, cmd)
	m.mu.Unlock()
	if m.RerouteFn != nil {
		return m.RerouteFn(ctx, cmd)
	}
	return &client.RerouteResponse{Acknowledged: true}, nil
}

func (m *MockESClient) Ping(ctx context.Context) error {
	return nil
}

func (m *MockESClient) BaseURL() string {
	return "http://mock:9200"
}

// Reroutes returns the move commands issued so far.
func (m *MockESClient) Reroutes() []client.MoveCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]client.MoveCommand(nil), m.reroutes...)
}

// fakeClock advances instantly whenever something waits on it.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.waits = append(c.waits, d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *fakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

// stoppedClock never fires; waits end only through context or trigger.
type stoppedClock struct{}

func (stoppedClock) Now() time.Time                       { return time.Time{} }
func (stoppedClock) After(time.Duration) <-chan time.Time { return nil }

// eventLog collects sink events.
type eventLog struct {
	mu     sync.Mutex
	events []any
}

func (l *eventLog) sink(ev any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) all() []any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]any(nil), l.events...)
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

// nodeStats builds a fully populated node stats entry.
func nodeStats(name, ip string, cpu, heap int, total, avail int64) client.NodeStats {
	return client.NodeStats{
		Name: name,
		IP:   ip,
		OS:   &client.NodeOSStats{CPU: &client.NodeCPUStats{Percent: intPtr(cpu)}},
		JVM:  &client.NodeJVMStats{Mem: &client.NodeJVMMem{HeapUsedPercent: intPtr(heap)}},
		FS: &client.NodeFSStats{Total: &client.NodeFSTotal{
			TotalInBytes:     int64Ptr(total),
			AvailableInBytes: int64Ptr(avail),
		}},
	}
}

func load(name string, cpu, heap, diskFree float64) model.NodeLoad {
	return model.NodeLoad{Name: name, CPUPercent: cpu, HeapPercent: heap, DiskFreePercent: diskFree}
}
