package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Plex     PlexConfig     `toml:"plex"`
	Run      RunConfig      `toml:"run"`
	Database DatabaseConfig `toml:"database"`
	Watch    WatchConfig    `toml:"watch"`
}

// PlexConfig contains connection settings for the Plex media server.
type PlexConfig struct {
	URL       string `toml:"url"`
	Token     string `toml:"token"`
	SectionID int    `toml:"section_id"`
	ServerID  string `toml:"server_id"`
}

// RunConfig contains the settings for a single reconciliation run.
// It is passed explicitly into the engine; there is no ambient run state.
type RunConfig struct {
	PlaylistName string   `toml:"playlist_name"`
	Stations     []string `toml:"stations"`
	WishlistPath string   `toml:"wishlist_path"`
}

// DatabaseConfig contains settings for the run-history database.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// WatchConfig contains scheduling settings for the watch command.
type WatchConfig struct {
	IntervalMinutes int `toml:"interval_minutes"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
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
