package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("DISCORD_CLIENT_ID", "1015096771661279243")
	os.Setenv("DISCORD_CLIENT_SECRET", "test-secret")
	os.Setenv("BACKEND_API_URL", "http://localhost:8081")
	os.Setenv("BACKEND_API_TOKEN", "backend-token")
	defer func() {
		os.Unsetenv("DISCORD_CLIENT_ID")
		os.Unsetenv("DISCORD_CLIENT_SECRET")
		os.Unsetenv("BACKEND_API_URL")
		os.Unsetenv("BACKEND_API_TOKEN")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Discord.ClientID == "" || cfg.Backend.BaseURL == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.Discord.APIBaseURL != "https://discord.com/api/v10" {
		t.Fatalf("unexpected discord api base: %s", cfg.Discord.APIBaseURL)
	}
	if cfg.Backend.Timeout.Seconds() != 5 {
		t.Fatalf("expected 5s backend timeout, got %v", cfg.Backend.Timeout)
	}
	// redirect URI falls back to the local callback when unset
	if cfg.Discord.RedirectURI == "" {
		t.Fatalf("expected derived redirect URI")
	}
}

func TestLoadConfigMissingClientID(t *testing.T) {
	os.Unsetenv("DISCORD_CLIENT_ID")
	os.Setenv("DISCORD_CLIENT_SECRET", "test-secret")
	defer os.Unsetenv("DISCORD_CLIENT_SECRET")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DISCORD_CLIENT_ID is missing")
	}
}
