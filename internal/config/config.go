// Package config loads the on-disk configuration and the environment
// credentials. Anything wrong here is fatal at startup, before any
// conversation begins.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	defaultOpenAIModel    = "gpt-4o"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultMaxRounds      = 8
	defaultGraphEndpoint  = "https://graph.microsoft.com/v1.0"
	defaultSpotifyBaseURL = "https://api.spotify.com/v1"
)

// Config is the on-disk configuration for gina.
//
// Credentials never live here; they come from the environment (see
// LoadCredentials).
type Config struct {
	// Provider selects the model transport: "openai" (default) or
	// "anthropic".
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	// MaxRounds caps model round trips per message.
	MaxRounds int `json:"max_rounds,omitempty"`

	PersonasPath   string `json:"personas_path,omitempty"`
	DefaultPersona string `json:"default_persona,omitempty"`

	Spotify SpotifyConfig `json:"spotify,omitempty"`
	Graph   GraphConfig   `json:"graph,omitempty"`

	// LogFormat is "json" or "text".
	LogFormat string `json:"log_format,omitempty"`
	// LogLevel is "debug|info|warn|error".
	LogLevel string `json:"log_level,omitempty"`
}

type SpotifyConfig struct {
	Enabled         bool   `json:"enabled,omitempty"`
	BaseURL         string `json:"base_url,omitempty"`
	DefaultDeviceID string `json:"default_device_id,omitempty"`
}

type GraphConfig struct {
	Enabled  bool   `json:"enabled,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// ConfigurationError reports a missing or invalid startup setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case "", ProviderOpenAI, ProviderAnthropic:
	default:
		return &ConfigurationError{Key: "provider", Reason: fmt.Sprintf("unsupported provider %q", c.Provider)}
	}
	if c.MaxRounds < 0 {
		return &ConfigurationError{Key: "max_rounds", Reason: "must not be negative"}
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return &ConfigurationError{Key: "log_format", Reason: "must be json or text"}
	}
	return nil
}

func (c *Config) EffectiveProvider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderOpenAI
	}
	return p
}

func (c *Config) EffectiveModel() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	if c.EffectiveProvider() == ProviderAnthropic {
		return defaultAnthropicModel
	}
	return defaultOpenAIModel
}

func (c *Config) EffectiveMaxRounds() int {
	if c.MaxRounds > 0 {
		return c.MaxRounds
	}
	return defaultMaxRounds
}

func (c *SpotifyConfig) EffectiveBaseURL() string {
	if u := strings.TrimSpace(c.BaseURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return defaultSpotifyBaseURL
}

func (c *GraphConfig) EffectiveEndpoint() string {
	if u := strings.TrimSpace(c.Endpoint); u != "" {
		return strings.TrimRight(u, "/")
	}
	return defaultGraphEndpoint
}

// DefaultConfigPath returns the default config path:
//
//	~/.gina/config.json
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "gina.config.json"
	}
	return filepath.Join(home, ".gina", "config.json")
}

// Load reads and validates a config file. A missing file yields defaults
// rather than an error, so a bare `gina run` works out of the box.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, &ConfigurationError{Key: path, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config atomically.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp := path + ".tmp"
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
