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

	// MaxMessageBytes caps a single inbound websocket frame.
	MaxMessageBytes int64 `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	// CommandsPerMinute limits inbound websocket commands per connection; 0 disables the limit.
	CommandsPerMinute int `mapstructure:"commands_per_minute" yaml:"commands_per_minute"`

	SessionSecret   string        `mapstructure:"session_secret" yaml:"session_secret"`
	SessionIssuer   string        `mapstructure:"session_issuer" yaml:"session_issuer"`
	SessionAudience string        `mapstructure:"session_audience" yaml:"session_audience"`
	SessionTTL      time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		MaxMessageBytes:   1 << 16,
		CommandsPerMinute: 120,
		SessionSecret:     "change-me",
		SessionIssuer:     "roomgate",
		SessionAudience:   "roomgate",
		SessionTTL:        24 * time.Hour,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
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
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.CommandsPerMinute != 0 {
		c.CommandsPerMinute = other.CommandsPerMinute
	}
	if other.SessionSecret != "" {
		c.SessionSecret = other.SessionSecret
	}
	if other.SessionIssuer != "" {
		c.SessionIssuer = other.SessionIssuer
	}
	if other.SessionAudience != "" {
		c.SessionAudience = other.SessionAudience
	}
	if other.SessionTTL != 0 {
		c.SessionTTL = other.SessionTTL
	}
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.SessionSecret == "" {
		return errors.New("session_secret is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("max_message_bytes must be positive, got %d", c.MaxMessageBytes)
	}
	if c.CommandsPerMinute < 0 {
		return fmt.Errorf("commands_per_minute must not be negative, got %d", c.CommandsPerMinute)
	}
	return nil
}
