package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

//go:embed config.example.toml
var exampleConf []byte

// AppName names the XDG directories owned by ytmap.
const AppName = "ytmap"

// DefaultSpotifyRedirectURI is the OAuth callback served by the native server.
const DefaultSpotifyRedirectURI = "http://localhost:5050/callback/spotify"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Launcher    LauncherConfig    `toml:"launcher"`
	Server      ServerConfig      `toml:"server"`
	Paths       PathsConfig       `toml:"paths"`
	Database    DatabaseConfig    `toml:"database"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// LauncherConfig describes the Python backend bootstrapped by `ytmap start`.
type LauncherConfig struct {
	BackendDir   string   `toml:"backend_dir"`
	Interpreters []string `toml:"interpreters"`
	VenvDir      string   `toml:"venv_dir"`
	Requirements string   `toml:"requirements"`
	AuthFile     string   `toml:"auth_file"`
	AuthScript   string   `toml:"auth_script"`
	ServerScript string   `toml:"server_script"`
	ServerPort   int      `toml:"server_port"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	StaticDir   string `toml:"static_dir"`
	OpenBrowser bool   `toml:"open_browser"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PathsConfig locates the JSON data files shared with the frontend.
type PathsConfig struct {
	MusicData string `toml:"music_data"`
	GraphData string `toml:"graph_data"`
	GenreMap  string `toml:"genre_map"`
	AuthFile  string `toml:"auth_file"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	LastFM  LastFMConfig  `toml:"lastfm"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	MaxTracks    int    `toml:"max_tracks"`
}

// Configured reports whether both the client id and secret are set.
func (s SpotifyConfig) Configured() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// LastFMConfig contains Last.fm API settings.
type LastFMConfig struct {
	APIKey            string  `toml:"api_key"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
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

// LoadConfigOrDefault loads path when it exists, falling back to [DefaultConfig].
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
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

// ApplyEnv overrides credentials with the environment variables understood by the mapper backend.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.Credentials.Spotify.RedirectURI = v
	}
	if v := getenv("LASTFM_API_KEY"); v != "" {
		c.Credentials.LastFM.APIKey = v
	}
}

// DatabasePath returns the configured database path, or the XDG data location when unset.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}

	path, err := xdg.DataFile(filepath.Join(AppName, AppName+".db"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return path, nil
}
