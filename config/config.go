// Package config loads the forwarder's YAML configuration surface with
// github.com/goccy/go-yaml.
package config

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// CSConfig holds the Content Store's initial policy.
type CSConfig struct {
	Capacity int  `yaml:"capacity"`
	Admit    bool `yaml:"admit"`
	Serve    bool `yaml:"serve"`
}

// DeadNonceListConfig holds the DeadNonceList's tuning parameters.
type DeadNonceListConfig struct {
	LifetimeMs int `yaml:"lifetime_ms"`
}

// TablesConfig groups the per-table configuration sections.
type TablesConfig struct {
	DeadNonceList   DeadNonceListConfig `yaml:"dead_nonce_list"`
	DefaultStrategy string              `yaml:"default_strategy"`
}

// RIBConfig holds RIB/readvertise configuration.
type RIBConfig struct {
	LocalhostSecurity      string `yaml:"localhost_security"`
	LocalhopSecurity       string `yaml:"localhop_security"`
	AutoPrefixPropagateCost int    `yaml:"auto_prefix_propagate_cost"`
	AutoPropagateTimeoutMs  int    `yaml:"auto_prefix_propagate_timeout_ms"`
	ReadvertiseNlsr         bool   `yaml:"readvertise_nlsr"`
}

// Config is the forwarder's top-level configuration.
type Config struct {
	LogLevel string       `yaml:"log_level"`
	CS       CSConfig     `yaml:"cs"`
	Tables   TablesConfig `yaml:"tables"`
	RIB      RIBConfig    `yaml:"rib"`
}

// Default returns the forwarder's baseline configuration.
func Default() *Config {
	return &Config{
		LogLevel: "INFO",
		CS: CSConfig{
			Capacity: 65536,
			Admit:    true,
			Serve:    true,
		},
		Tables: TablesConfig{
			DeadNonceList:   DeadNonceListConfig{LifetimeMs: 6000},
			DefaultStrategy: "best-route",
		},
		RIB: RIBConfig{
			AutoPrefixPropagateCost: 15,
			AutoPropagateTimeoutMs:  10000,
		},
	}
}

// ReadYaml reads a YAML config file into cfg, starting from Default()'s
// values so an incomplete file still produces a usable configuration.
func ReadYaml(path string) (*Config, error) {
	cfg := Default()
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DeadNonceLifetime returns the configured DeadNonceList lifetime, clamped
// to a minimum of 1s.
func (c *Config) DeadNonceLifetime() time.Duration {
	ms := c.Tables.DeadNonceList.LifetimeMs
	if ms <= 0 {
		ms = 6000
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		d = time.Second
	}
	return d
}
