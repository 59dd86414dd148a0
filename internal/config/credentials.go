package config

import (
	"os"
	"strings"
)

// Environment variable names for secrets. Secrets stay out of the config
// file.
const (
	EnvOpenAIAPIKey       = "OPENAI_API_KEY"
	EnvAnthropicAPIKey    = "ANTHROPIC_API_KEY"
	EnvSpotifyAccessToken = "SPOTIFY_ACCESS_TOKEN"
	EnvSpotifyDeviceID    = "SPOTIFY_DEFAULT_DEVICE_ID"
	EnvGraphAccessToken   = "GRAPH_ACCESS_TOKEN"
)

// Credentials holds every secret read from the environment at startup.
type Credentials struct {
	OpenAIAPIKey       string
	AnthropicAPIKey    string
	SpotifyAccessToken string
	SpotifyDeviceID    string
	GraphAccessToken   string
}

// LoadCredentials reads the environment and verifies that every credential
// the given config requires is present. Missing required credentials are a
// ConfigurationError: fatal before any conversation begins.
func LoadCredentials(cfg *Config) (Credentials, error) {
	creds := Credentials{
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv(EnvOpenAIAPIKey)),
		AnthropicAPIKey:    strings.TrimSpace(os.Getenv(EnvAnthropicAPIKey)),
		SpotifyAccessToken: strings.TrimSpace(os.Getenv(EnvSpotifyAccessToken)),
		SpotifyDeviceID:    strings.TrimSpace(os.Getenv(EnvSpotifyDeviceID)),
		GraphAccessToken:   strings.TrimSpace(os.Getenv(EnvGraphAccessToken)),
	}

	switch cfg.EffectiveProvider() {
	case ProviderAnthropic:
		if creds.AnthropicAPIKey == "" {
			return Credentials{}, &ConfigurationError{Key: EnvAnthropicAPIKey, Reason: "not set"}
		}
	default:
		if creds.OpenAIAPIKey == "" {
			return Credentials{}, &ConfigurationError{Key: EnvOpenAIAPIKey, Reason: "not set"}
		}
	}
	if cfg.Spotify.Enabled && creds.SpotifyAccessToken == "" {
		return Credentials{}, &ConfigurationError{Key: EnvSpotifyAccessToken, Reason: "not set but spotify tools are enabled"}
	}
	if cfg.Graph.Enabled && creds.GraphAccessToken == "" {
		return Credentials{}, &ConfigurationError{Key: EnvGraphAccessToken, Reason: "not set but graph tools are enabled"}
	}
	return creds, nil
}
