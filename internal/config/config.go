package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the full process configuration.
type Config struct {
	Cluster  ClusterConfig  `mapstructure:"cluster"`
	Balancer BalancerConfig `mapstructure:"balancer"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ClusterConfig locates and authenticates against the Elasticsearch cluster.
type ClusterConfig struct {
	URL            string        `mapstructure:"url"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Insecure       bool          `mapstructure:"insecure"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// BalancerConfig controls balancing passes.
type BalancerConfig struct {
	IndexPattern string        `mapstructure:"index_pattern"`
	Interval     time.Duration `mapstructure:"interval"`
	KeepPolicy   string        `mapstructure:"keep_policy"`
	DryRun       bool          `mapstructure:"dry_run"`
	RunOnce      bool          `mapstructure:"run_once"`
}

// MonitorConfig controls how a shard move is followed.
type MonitorConfig struct {
	AwaitInterval    time.Duration `mapstructure:"await_interval"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
	ErrorInterval    time.Duration `mapstructure:"error_interval"`
	MaxDuration      time.Duration `mapstructure:"max_duration"`
}

// LoggingConfig selects level, encoding and destination of log output.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Cluster.Validate(); err != nil {
		return fmt.Errorf("cluster config: %w", err)
	}
	if err := c.Balancer.Validate(); err != nil {
		return fmt.Errorf("balancer config: %w", err)
	}
	if err := c.Monitor.Validate(); err != nil {
		return fmt.Errorf("monitor config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates cluster configuration
func (c *ClusterConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("cluster.url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("cluster.url: unsupported scheme %q (must be http or https)", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("cluster.url %q: host is required", c.URL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("cluster.request_timeout must be positive")
	}
	return nil
}

// Validate validates balancer configuration
func (c *BalancerConfig) Validate() error {
	if c.IndexPattern == "" {
		return fmt.Errorf("balancer.index_pattern is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("balancer.interval must be positive")
	}
	c.KeepPolicy = strings.ToLower(strings.TrimSpace(c.KeepPolicy))
	switch c.KeepPolicy {
	case "first", "largest":
	default:
		return fmt.Errorf("balancer.keep_policy must be 'first' or 'largest'")
	}
	return nil
}

// Validate validates monitor configuration
func (c *MonitorConfig) Validate() error {
	if c.AwaitInterval <= 0 || c.ProgressInterval <= 0 || c.ErrorInterval <= 0 {
		return fmt.Errorf("monitor intervals must be positive")
	}
	if c.MaxDuration < 0 {
		return fmt.Errorf("monitor.max_duration must not be negative")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
