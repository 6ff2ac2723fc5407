package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration with precedence defaults < config file <
// environment < overrides. Overrides carry explicitly set command-line flags
// keyed by config key (e.g. "balancer.interval").
func Load(configPath string, overrides map[string]any) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("shardbal")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/shardbal")
	}

	setDefaults(v)

	// SHARDBAL_BALANCER_INTERVAL → balancer.interval
	v.SetEnvPrefix("SHARDBAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Conventional Elasticsearch variables win over the prefixed names.
	_ = v.BindEnv("cluster.url", "ES_HOST", "SHARDBAL_CLUSTER_URL")
	_ = v.BindEnv("cluster.username", "ES_USER", "SHARDBAL_CLUSTER_USERNAME")
	_ = v.BindEnv("cluster.password", "ES_PASSWORD", "SHARDBAL_CLUSTER_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	for key, val := range overrides {
		v.Set(key, val)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Development defaults; production deployments set ES_HOST and friends.
	v.SetDefault("cluster.url", "http://localhost:9200")
	v.SetDefault("cluster.username", "elastic")
	v.SetDefault("cluster.password", "changeme")
	v.SetDefault("cluster.insecure", false)
	v.SetDefault("cluster.request_timeout", "30s")

	v.SetDefault("balancer.index_pattern", ".ds-traces-apm-*")
	v.SetDefault("balancer.interval", "60s")
	v.SetDefault("balancer.keep_policy", "first")
	v.SetDefault("balancer.dry_run", false)
	v.SetDefault("balancer.run_once", false)

	v.SetDefault("monitor.await_interval", "2s")
	v.SetDefault("monitor.progress_interval", "10s")
	v.SetDefault("monitor.error_interval", "2s")
	v.SetDefault("monitor.max_duration", "0s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_path", "stderr")

	v.SetDefault("metrics.listen", "")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
