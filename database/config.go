// Package database provides database management and Repository infrastructure
package database

import (
	"time"
)

// Config database configuration
type Config struct {
	Driver          string        `mapstructure:"driver"`            // Driver types: mysql, postgres, sqlite
	DSN             string        `mapstructure:"dsn"`               // data source name
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // Maximum number of open connections
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // Maximum number of idle connections
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // Connection maximum lifetime
	EnableLog       bool          `mapstructure:"enable_log"`        // Whether logging is enabled
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`    // slow query threshold
}

// DefaultConfig Return the default configuration
func DefaultConfig() Config {
	return Config{
		Driver:          "mysql",
		MaxOpenConns:    100,
		MaxIdleConns:    10,
		ConnMaxLifetime: 3600 * time.Second,
		EnableLog:       true,
		SlowThreshold:   200 * time.Millisecond,
	}
}

// Validate configuration
func (c *Config) Validate() error {
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.DSN == "" {
		return ErrInvalidConfig
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 100
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 10
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 3600 * time.Second
	}
	if c.SlowThreshold <= 0 {
		c.SlowThreshold = 200 * time.Millisecond
	}
	return nil
}
