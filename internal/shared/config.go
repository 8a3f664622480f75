package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Game        GameConfig        `toml:"game"`
	Catalog     CatalogConfig     `toml:"catalog"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" env:"SPOTIFY_ID"`
	ClientSecret string `toml:"client_secret" env:"SPOTIFY_SECRET"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"SONGLE_DB_PATH"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP interaction server settings.
type ServerConfig struct {
	Host  string `toml:"host" env:"SONGLE_HOST"`
	Port  int    `toml:"port" env:"SONGLE_PORT"`
	Token string `toml:"token" env:"SONGLE_INTERACTION_TOKEN"`
}

// GameConfig contains rules for new sessions.
type GameConfig struct {
	MaxGuesses     int `toml:"max_guesses" env:"SONGLE_MAX_GUESSES"`
	HistoryDisplay int `toml:"history_display"`
}

// CatalogConfig contains music catalog client settings.
type CatalogConfig struct {
	Market            string  `toml:"market" env:"SONGLE_MARKET"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	CacheTTLMinutes   int     `toml:"cache_ttl_minutes"`
}

// HasSpotifyCredentials reports whether both client id and secret are set.
func (c *Config) HasSpotifyCredentials() bool {
	return c.Credentials.Spotify.ClientID != "" && c.Credentials.Spotify.ClientSecret != ""
}

// Validate checks game and catalog settings that would otherwise break at runtime.
func (c *Config) Validate() error {
	if c.Game.MaxGuesses < 1 {
		return fmt.Errorf("%w: game.max_guesses must be positive, got %d", ErrInvalidConfig, c.Game.MaxGuesses)
	}
	if c.Game.HistoryDisplay < 0 {
		return fmt.Errorf("%w: game.history_display must not be negative", ErrInvalidConfig)
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: catalog.requests_per_second must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv loads dotenv files (missing files are ignored) and overlays tagged environment variables onto config.
//
// Credentials are usually supplied this way instead of being written into config.toml.
func ApplyEnv(config *Config, dotenvFiles ...string) error {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
