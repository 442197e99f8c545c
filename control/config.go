// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Environment-driven configuration for executors, queues, rings, logging and metrics.

package control

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all toolkit configuration.
type Config struct {
	Executor ExecutorConfig
	Queue    QueueConfig
	Ring     RingConfig
	Logging  LogConfig
	Metrics  MetricsConfig
}

// ExecutorConfig controls worker pools. Workers == 0 selects runtime.NumCPU().
type ExecutorConfig struct {
	Workers int    `envconfig:"CC_EXECUTOR_WORKERS" default:"0"`
	Policy  string `envconfig:"CC_EXECUTOR_POLICY" default:"none"`
	Pin     bool   `envconfig:"CC_EXECUTOR_PIN" default:"false"`
}

// QueueConfig holds default queue capacities.
type QueueConfig struct {
	MPMCCapacity  uint64 `envconfig:"CC_MPMC_CAPACITY" default:"4096"`
	SPSCCapacity  int    `envconfig:"CC_SPSC_CAPACITY" default:"262144"`
	SPSCCacheSize int    `envconfig:"CC_SPSC_CACHE" default:"8192"`
}

// RingConfig holds ring defaults and the optional dependency graph file.
type RingConfig struct {
	Size      int    `envconfig:"CC_RING_SIZE" default:"1024"`
	GraphFile string `envconfig:"CC_GRAPH_FILE"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"CC_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"CC_LOG_DEV" default:"false"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `envconfig:"CC_METRICS_ENABLED" default:"false"`
	Namespace string `envconfig:"CC_METRICS_NAMESPACE" default:"hioload_cc"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Executor: ExecutorConfig{Policy: "none"},
		Queue: QueueConfig{
			MPMCCapacity:  4096,
			SPSCCapacity:  256 * 1024,
			SPSCCacheSize: 8 * 1024,
		},
		Ring:    RingConfig{Size: 1024},
		Logging: LogConfig{Level: "info"},
		Metrics: MetricsConfig{Namespace: "hioload_cc"},
	}
}

// Validate checks value ranges that envconfig cannot express.
func (c *Config) Validate() error {
	if c.Executor.Workers < 0 {
		return fmt.Errorf("config: executor workers must be >= 0, got %d", c.Executor.Workers)
	}
	switch c.Executor.Policy {
	case "none", "unordered", "ordered":
	default:
		return fmt.Errorf("config: unknown executor policy %q", c.Executor.Policy)
	}
	if n := c.Queue.MPMCCapacity; n == 0 || n&(n-1) != 0 {
		return fmt.Errorf("config: mpmc capacity must be a power of two, got %d", n)
	}
	if c.Queue.SPSCCapacity <= 0 || c.Queue.SPSCCacheSize <= 0 {
		return fmt.Errorf("config: spsc capacity and cache size must be positive")
	}
	if n := c.Ring.Size; n <= 0 || n&(n-1) != 0 {
		return fmt.Errorf("config: ring size must be a power of two, got %d", n)
	}
	return nil
}
