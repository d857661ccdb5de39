package shared

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "mixify.db" {
			t.Errorf("expected database path mixify.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Session.Path == "" {
			t.Error("expected a default session path")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[credentials.identity]
url = "https://example.supabase.co"
anon_key = "anon-key"

[session]
path = "/tmp/session.json"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Credentials.Identity.URL != "https://example.supabase.co" {
			t.Errorf("expected identity URL to round-trip, got %s", config.Credentials.Identity.URL)
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "saved_client"
		if err := config.Credentials.Spotify.Update(&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
		}); err != nil {
			t.Fatalf("failed to update tokens: %v", err)
		}

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Credentials.Spotify.ClientID != "saved_client" {
			t.Errorf("expected saved client id, got %s", loaded.Credentials.Spotify.ClientID)
		}

		token := loaded.Credentials.Spotify.Token()
		if token == nil || token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("expected tokens to round-trip, got %+v", token)
		}
	})

	t.Run("UpdateRejectsEmptyToken", func(t *testing.T) {
		var spotify SpotifyConfig
		if err := spotify.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
		if err := spotify.Update(&oauth2.Token{}); err == nil {
			t.Error("expected error for empty access token")
		}
	})
}
