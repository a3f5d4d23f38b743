// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Stream  StreamConfig  `toml:"stream"`
	History HistoryConfig `toml:"history"`
}

// ServerConfig locates the yodel REST API.
type ServerConfig struct {
	URL      string `toml:"url"`
	LogLevel string `toml:"log_level"`
}

// StreamConfig tunes the push channel. URL is optional; when empty it is
// derived from the server origin with the matching ws/wss scheme.
type StreamConfig struct {
	URL         string   `toml:"url"`
	MinBackoff  Duration `toml:"min_backoff"`
	MaxBackoff  Duration `toml:"max_backoff"`
	ReadTimeout Duration `toml:"read_timeout"`
}

// HistoryConfig locates the local alert history database.
type HistoryConfig struct {
	Path string `toml:"path"`
}

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to defaults when it
// does not. Other read or parse errors are still reported.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.URL == "" {
		c.Server.URL = "http://localhost:8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Stream.MinBackoff <= 0 {
		c.Stream.MinBackoff = Duration(time.Second)
	}
	if c.Stream.MaxBackoff <= 0 {
		c.Stream.MaxBackoff = Duration(30 * time.Second)
	}
	if c.Stream.ReadTimeout <= 0 {
		c.Stream.ReadTimeout = Duration(15 * time.Second)
	}
}

// StreamURL returns the push channel endpoint, deriving it from the server
// origin when not configured explicitly: http becomes ws, https becomes wss,
// and the socket lives at /ws.
func (c *Config) StreamURL() (string, error) {
	if c.Stream.URL != "" {
		return c.Stream.URL, nil
	}

	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String(), nil
}

// HistoryPath returns the configured history database path, defaulting to
// ~/.yodel/history.db.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".yodel", "history.db"), nil
}

// SlogLevel maps the configured log level to slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.Server.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Server.LogLevel)
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
