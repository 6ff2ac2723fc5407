package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/dm/shardbal/internal/metrics"
)

// ESClient defines the cluster administrative calls the balancer depends on.
type ESClient interface {
	GetClusterHealth(ctx context.Context) (*ClusterHealth, error)
	GetIndices(ctx context.Context, pattern string) ([]IndexInfo, error)
	GetNodeStats(ctx context.Context) (*NodeStatsResponse, error)
	GetShards(ctx context.Context, index string) ([]ShardInfo, error)
	GetRecoveries(ctx context.Context, index string) ([]RecoveryInfo, error)
	Reroute(ctx context.Context, cmd MoveCommand) (*RerouteResponse, error)
	Ping(ctx context.Context) error
	BaseURL() string
}

// ClientConfig holds configuration for DefaultClient.
type ClientConfig struct {
	BaseURL            string
	Username           string
	Password           string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
	Retry              RetryPolicy

	// Sleep waits between retry attempts. Defaults to a context-aware timer.
	Sleep   func(ctx context.Context, d time.Duration) error
	Logger  zerolog.Logger
	Metrics metrics.Recorder
}

// DefaultClient implements ESClient using the standard net/http package.
// At most one request is on the wire at a time.
type DefaultClient struct {
	http    *http.Client
	config  ClientConfig
	retry   RetryPolicy
	wire    *semaphore.Weighted
	log     zerolog.Logger
	metrics metrics.Recorder
}

// NewDefaultClient constructs a DefaultClient from the given config.
// It configures TLS skip-verify and request timeout from the config.
// Returns an error if BaseURL is empty.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	return &DefaultClient{
		http: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		config:  cfg,
		retry:   cfg.Retry.withDefaults(),
		wire:    semaphore.NewWeighted(1),
		log:     cfg.Logger.With().Str("component", "client").Logger(),
		metrics: cfg.Metrics,
	}, nil
}

// BaseURL returns the configured base URL of the Elasticsearch cluster.
func (c *DefaultClient) BaseURL() string {
	return c.config.BaseURL
}

// do performs method on path with up to c.retry.MaxAttempts attempts. A
// transport error or a non-2xx status is retried after an exponential
// backoff; a 2xx response is returned as-is. Exhaustion yields *ClusterError
// carrying the last cause.
func (c *DefaultClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if err := c.wire.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.wire.Release(1)

	var (
		lastErr  error
		attempts int
	)
	for attempts = 1; attempts <= c.retry.MaxAttempts; attempts++ {
		respBody, err := c.roundTrip(ctx, method, path, body)
		if err == nil {
			c.metrics.ClusterRequest(method, "ok")
			return respBody, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempts == c.retry.MaxAttempts {
			break
		}

		wait := c.retry.Backoff(attempts)
		c.log.Warn().Err(err).
			Str("method", method).
			Str("path", stripQuery(path)).
			Int("attempt", attempts).
			Dur("backoff", wait).
			Msg("cluster request failed, retrying")
		c.metrics.ClusterRetry()
		if err := c.config.Sleep(ctx, wait); err != nil {
			lastErr = err
			break
		}
	}

	c.metrics.ClusterRequest(method, "error")
	cerr := &ClusterError{Method: method, Path: stripQuery(path), Attempts: attempts, Err: lastErr}
	c.log.Error().Err(cerr).Msg("cluster request failed")
	return nil, cerr
}

// roundTrip performs a single request relative to BaseURL. It sets
// Accept: application/json and Basic Auth if credentials are configured.
// Returns the response body bytes or a *StatusError on non-2xx status.
func (c *DefaultClient) roundTrip(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Username != "" || c.config.Password != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	const maxResponseBytes = 32 * 1024 * 1024
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(respBody) > maxResponseBytes {
		return nil, fmt.Errorf("response body exceeds %d MB limit", maxResponseBytes/(1024*1024))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(respBody, 200)}
	}
	return respBody, nil
}

// Ping checks connectivity by calling /_cluster/health once with a 1s
// timeout. It does not retry.
func (c *DefaultClient) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := c.wire.Acquire(pingCtx, 1); err != nil {
		return err
	}
	defer c.wire.Release(1)

	_, err := c.roundTrip(pingCtx, http.MethodGet, endpointClusterHealth, nil)
	return err
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
