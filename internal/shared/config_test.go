package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 5050 {
			t.Errorf("expected server port 5050, got %d", config.Server.Port)
		}
		if config.Launcher.ServerPort != 5000 {
			t.Errorf("expected launcher server port 5000, got %d", config.Launcher.ServerPort)
		}
		if len(config.Launcher.Interpreters) != 1 || config.Launcher.Interpreters[0] != "python3" {
			t.Errorf("expected interpreters [python3], got %v", config.Launcher.Interpreters)
		}
		if config.Launcher.AuthFile != "browser.json" {
			t.Errorf("expected auth file browser.json, got %s", config.Launcher.AuthFile)
		}
		if config.Database.Path != "" {
			t.Errorf("expected empty database path, got %s", config.Database.Path)
		}
		if config.Credentials.Spotify.Configured() {
			t.Error("default spotify credentials should not be configured")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Server.Port != DefaultConfig().Server.Port {
			t.Errorf("created config server port doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[launcher]
backend_dir = "/srv/mapper/backend"
interpreters = ["python3.12", "python3"]

[server]
port = 8080

[database]
path = "/custom/path.db"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Launcher.BackendDir != "/srv/mapper/backend" {
			t.Errorf("expected backend dir /srv/mapper/backend, got %s", config.Launcher.BackendDir)
		}
		if len(config.Launcher.Interpreters) != 2 {
			t.Errorf("expected 2 interpreters, got %v", config.Launcher.Interpreters)
		}
		if config.Launcher.ServerScript != "server.py" {
			t.Errorf("missing keys should keep defaults, got server script %q", config.Launcher.ServerScript)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected port 8080, got %d", config.Server.Port)
		}
		if config.Server.Host != "0.0.0.0" {
			t.Errorf("expected default host, got %s", config.Server.Host)
		}
		if !config.Credentials.Spotify.Configured() {
			t.Error("spotify credentials should be configured")
		}

		path, err := config.DatabasePath()
		if err != nil || path != "/custom/path.db" {
			t.Errorf("DatabasePath() = %q, %v", path, err)
		}
	})

	t.Run("LoadConfig invalid toml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault missing file", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Server.Port != 5050 {
			t.Errorf("expected default config, got port %d", config.Server.Port)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		env := map[string]string{
			"SPOTIFY_CLIENT_ID":     "env-id",
			"SPOTIFY_CLIENT_SECRET": "env-secret",
			"LASTFM_API_KEY":        "env-key",
		}
		config := DefaultConfig()
		config.ApplyEnv(func(k string) string { return env[k] })

		if config.Credentials.Spotify.ClientID != "env-id" || config.Credentials.Spotify.ClientSecret != "env-secret" {
			t.Errorf("spotify credentials not applied: %+v", config.Credentials.Spotify)
		}
		if config.Credentials.LastFM.APIKey != "env-key" {
			t.Errorf("lastfm key not applied: %s", config.Credentials.LastFM.APIKey)
		}
		if config.Credentials.Spotify.RedirectURI != "http://localhost:5050/callback/spotify" {
			t.Errorf("unset env should keep redirect uri, got %s", config.Credentials.Spotify.RedirectURI)
		}
	})

	t.Run("DatabasePath defaults to data dir", func(t *testing.T) {
		path, err := DefaultConfig().DatabasePath()
		if err != nil {
			t.Fatalf("DatabasePath() error: %v", err)
		}
		if !strings.HasSuffix(path, filepath.Join(AppName, AppName+".db")) {
			t.Errorf("DatabasePath() = %s", path)
		}
	})
}

func TestServerConfigAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 5050}
	if got := s.Addr(); got != "127.0.0.1:5050" {
		t.Errorf("Addr() = %s", got)
	}
}
