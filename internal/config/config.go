package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/mountfs/mountfs/pkg/types"
)

// Config represents the telemetry-relevant slice of a mount's settings.
// It is read-only to the engine; the host's settings layer owns it.
type Config struct {
	Mount      MountOptions     `yaml:"mount"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// MountOptions represents the per-mount cache options the advisor
// recommends changes to.
type MountOptions struct {
	CacheSize    string        `yaml:"cache_size"` // human size, e.g. "50MB"
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	Prefetch     bool          `yaml:"prefetch"`
	Compression  bool          `yaml:"compression"`
	WatchExclude []string      `yaml:"watch_exclude"` // glob patterns, advised on but not evaluated here
}

// MonitoringConfig represents the telemetry engine's own settings.
type MonitoringConfig struct {
	Enabled              bool   `yaml:"enabled"`
	OperationHistorySize int    `yaml:"operation_history_size"`
	NetworkHistorySize   int    `yaml:"network_history_size"`
	MetricsPort          int    `yaml:"metrics_port"`
	MetricsPath          string `yaml:"metrics_path"`
}

// NewDefault returns a configuration with sensible defaults
func NewDefault() *Config {
	return &Config{
		Mount: MountOptions{
			CacheSize:   "50MB",
			CacheTTL:    5 * time.Minute,
			Prefetch:    false,
			Compression: false,
		},
		Monitoring: MonitoringConfig{
			Enabled:              true,
			OperationHistorySize: 1000,
			NetworkHistorySize:   100,
			MetricsPort:          8080,
			MetricsPath:          "/metrics",
		},
	}
}

// Load reads a configuration from a YAML file, applying defaults for
// anything the file omits.
func Load(path string) (*Config, error) {
	cfg := NewDefault()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := ParseSize(c.Mount.CacheSize); err != nil {
		return fmt.Errorf("invalid cache_size: %w", err)
	}
	if c.Mount.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be greater than 0")
	}
	if c.Monitoring.OperationHistorySize <= 0 {
		return fmt.Errorf("operation_history_size must be greater than 0")
	}
	if c.Monitoring.NetworkHistorySize <= 0 {
		return fmt.Errorf("network_history_size must be greater than 0")
	}
	if c.Monitoring.MetricsPort < 0 || c.Monitoring.MetricsPort > 65535 {
		return fmt.Errorf("metrics_port out of range: %d", c.Monitoring.MetricsPort)
	}
	return nil
}

// CacheSettings converts the mount options into the advisor's baseline.
func (o MountOptions) CacheSettings() (types.CacheSettings, error) {
	size, err := ParseSize(o.CacheSize)
	if err != nil {
		return types.CacheSettings{}, fmt.Errorf("invalid cache_size: %w", err)
	}
	return types.CacheSettings{
		Enabled:     true,
		MaxSize:     size,
		TTL:         o.CacheTTL,
		Prefetch:    o.Prefetch,
		Compression: o.Compression,
	}, nil
}

// ParseSize parses a human-readable size string like "50MB" or "2GB"
// into bytes. Bare numbers are bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := int64(1)
	for _, unit := range []struct {
		suffix string
		factor int64
	}{
		{"TB", 1 << 40},
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(s, unit.suffix) {
			multiplier = unit.factor
			s = strings.TrimSuffix(s, unit.suffix)
			break
		}
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", s, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("size cannot be negative")
	}
	return int64(value * float64(multiplier)), nil
}
