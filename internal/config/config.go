// Package config loads client and server settings from defaults, a YAML
// file and LINECHAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Transport names accepted in the transport key.
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "ws"
)

// Config holds client and server configuration values. DetectTimeout limits
// how long the server waits for a new connection's first bytes; zero waits
// forever.
type Config struct {
	Host           string        `mapstructure:"host" yaml:"host"`
	Port           int           `mapstructure:"port" yaml:"port"`
	Transport      string        `mapstructure:"transport" yaml:"transport"`
	WSPath         string        `mapstructure:"ws_path" yaml:"ws_path"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	EventBuffer    int           `mapstructure:"event_buffer" yaml:"event_buffer"`
	Username       string        `mapstructure:"username" yaml:"username"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	ListenAddr     string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	DetectTimeout  time.Duration `mapstructure:"detect_timeout" yaml:"detect_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Host:           "localhost",
		Port:           1300,
		Transport:      TransportTCP,
		WSPath:         "/ws",
		ConnectTimeout: 5 * time.Second,
		EventBuffer:    64,
		LogLevel:       "info",
		ListenAddr:     ":1300",
	}
}

// Validate reports the first unusable value.
func (c Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("host is empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch c.Transport {
	case TransportTCP, TransportWebSocket:
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportTCP, TransportWebSocket))
	}
	if c.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("connect_timeout must be positive, got %s", c.ConnectTimeout))
	}
	if c.DetectTimeout < 0 {
		errs = append(errs, fmt.Errorf("detect_timeout must not be negative, got %s", c.DetectTimeout))
	}
	if c.EventBuffer < 1 {
		errs = append(errs, fmt.Errorf("event_buffer must be at least 1, got %d", c.EventBuffer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.Transport != "" {
		c.Transport = other.Transport
	}
	if other.WSPath != "" {
		c.WSPath = other.WSPath
	}
	if other.ConnectTimeout != 0 {
		c.ConnectTimeout = other.ConnectTimeout
	}
	if other.EventBuffer != 0 {
		c.EventBuffer = other.EventBuffer
	}
	if other.Username != "" {
		c.Username = other.Username
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.ListenAddr != "" {
		c.ListenAddr = other.ListenAddr
	}
	if other.DetectTimeout != 0 {
		c.DetectTimeout = other.DetectTimeout
	}
}
