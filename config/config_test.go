package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DISCORD_TOKEN", "TOKEN", "CHANNEL_ID", "LEADERBOARD_COMMAND", "API_KEY",
		"STATS_API_URL", "STATS_TIMEOUT", "LEADERBOARD_SCHEDULE", "LEADERBOARD_SIZE",
		"HTTP_ADDR", "DB_DSN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.StatsURL != DefaultStatsURL {
		t.Errorf("StatsURL = %q, want %q", cfg.StatsURL, DefaultStatsURL)
	}
	if cfg.Command != "!updateleaderboard" {
		t.Errorf("Command = %q, want !updateleaderboard", cfg.Command)
	}
	if cfg.Schedule != "@every 24h" {
		t.Errorf("Schedule = %q, want @every 24h", cfg.Schedule)
	}
	if cfg.LeaderboardSize != 15 {
		t.Errorf("LeaderboardSize = %d, want 15", cfg.LeaderboardSize)
	}
	if cfg.StatsTimeout != 15*time.Second {
		t.Errorf("StatsTimeout = %v, want 15s", cfg.StatsTimeout)
	}
	if cfg.HTTPAddr != ":8080" || !cfg.HTTPEnabled() {
		t.Errorf("HTTPAddr = %q, want :8080 enabled", cfg.HTTPAddr)
	}
	if cfg.AuditEnabled() {
		t.Errorf("audit should be disabled without DB_DSN")
	}
}

func TestLoadLegacyTokenName(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN", "legacy-token")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DiscordToken != "legacy-token" {
		t.Errorf("DiscordToken = %q, want legacy-token", cfg.DiscordToken)
	}

	t.Setenv("DISCORD_TOKEN", "new-token")
	cfg, _ = Load()
	if cfg.DiscordToken != "new-token" {
		t.Errorf("DISCORD_TOKEN should win over TOKEN, got %q", cfg.DiscordToken)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad timeout", "STATS_TIMEOUT", "soon"},
		{"negative timeout", "STATS_TIMEOUT", "-1s"},
		{"bad size", "LEADERBOARD_SIZE", "ten"},
		{"zero size", "LEADERBOARD_SIZE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("API_KEY", "key")
	t.Setenv("CHANNEL_ID", "123")
	cfg, _ := Load()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	t.Setenv("API_KEY", "")
	t.Setenv("CHANNEL_ID", "")
	cfg, _ = Load()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error when API_KEY and CHANNEL_ID missing")
	}
	if !strings.Contains(err.Error(), "API_KEY") || !strings.Contains(err.Error(), "CHANNEL_ID") {
		t.Errorf("error should name every missing var, got %v", err)
	}
}

func TestHTTPDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "off")
	cfg, _ := Load()
	if cfg.HTTPEnabled() {
		t.Error("HTTP_ADDR=off should disable the ops server")
	}
}
