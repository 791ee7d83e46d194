package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	// StaticDir is served for every path that is neither a health path nor a websocket upgrade.
	StaticDir   string   `mapstructure:"static_dir" yaml:"static_dir"`
	HealthPaths []string `mapstructure:"health_paths" yaml:"health_paths"`

	// AllowedOrigins empty or containing "*" accepts every origin.
	AllowedOrigins       []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	Subprotocol          string   `mapstructure:"subprotocol" yaml:"subprotocol"`
	MaxMessageBytes      int64    `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	SendBuffer           int      `mapstructure:"send_buffer" yaml:"send_buffer"`
	RosterIncludeUnnamed bool     `mapstructure:"roster_include_unnamed" yaml:"roster_include_unnamed"`

	// DatabasePath empty disables the session journal.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:                 ":6502",
		ReadHeaderTimeout:    5 * time.Second,
		ShutdownTimeout:      5 * time.Second,
		LogLevel:             "info",
		LogFormat:            "console",
		StaticDir:            ".",
		HealthPaths:          []string{"", "/", "/health"},
		Subprotocol:          "json",
		MaxMessageBytes:      64 << 10,
		SendBuffer:           64,
		RosterIncludeUnnamed: true,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
// Booleans cannot be told apart from their zero value and are left alone.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.StaticDir != "" {
		c.StaticDir = other.StaticDir
	}
	if len(other.HealthPaths) > 0 {
		c.HealthPaths = other.HealthPaths
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.Subprotocol != "" {
		c.Subprotocol = other.Subprotocol
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.SendBuffer != 0 {
		c.SendBuffer = other.SendBuffer
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("addr must not be empty")
	case c.MaxMessageBytes <= 0:
		return fmt.Errorf("max_message_bytes must be positive, got %d", c.MaxMessageBytes)
	case c.SendBuffer <= 0:
		return fmt.Errorf("send_buffer must be positive, got %d", c.SendBuffer)
	case c.ShutdownTimeout < 0:
		return fmt.Errorf("shutdown_timeout must not be negative, got %s", c.ShutdownTimeout)
	}
	return nil
}
