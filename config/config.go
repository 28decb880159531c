// Package config loads executor and store configuration from YAML or JSON
// and builds the configured store backend.
package config

import (
	"fmt"
	"time"
)

// Config is the top-level configuration for tooling built on the engine.
type Config struct {
	// Store selects and configures the checkpoint store backend.
	Store StoreConfig `json:"store" yaml:"store"`

	// TTLSeconds is the expiry hint applied to execution records. Zero
	// selects the engine default (7 days); negative disables expiry.
	TTLSeconds int `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// StoreConfig describes one store backend. Driver selects which of the
// remaining fields apply.
type StoreConfig struct {
	// Driver is one of: memory, file, redis, sqlite.
	Driver string `json:"driver" yaml:"driver"`

	// Dir is the base directory for the file driver.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Path is the database path for the sqlite driver.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Addr, Password, DB configure the redis driver.
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "file":
		if c.Store.Dir == "" {
			return fmt.Errorf("file store requires dir")
		}
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("sqlite store requires path")
		}
	case "redis":
		if c.Store.Addr == "" {
			return fmt.Errorf("redis store requires addr")
		}
	case "":
		return fmt.Errorf("store driver is required")
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
	return nil
}

// TTL returns the configured record expiry as a duration. The zero and
// negative conventions match StepExecutorOptions.TTL.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
