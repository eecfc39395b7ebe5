// Package config loads environment variables and provides a typed Config used across the bot.
// It applies sensible defaults so the binary can run locally with minimal setup.
// Required credentials are checked by Validate.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultStatsURL is the creator stats endpoint of the wager API.
	DefaultStatsURL = "https://api.hype.bet/wallet/api/v1/affiliate/creator/get-stats"
	// DefaultCommand is the chat command that forces a leaderboard refresh.
	DefaultCommand = "!updateleaderboard"
	// DefaultSchedule reposts the leaderboard once a day.
	DefaultSchedule = "@every 24h"
	// DefaultLeaderboardSize is the number of ranked entries shown.
	DefaultLeaderboardSize = 15
)

type Config struct {
	// Discord
	DiscordToken string
	ChannelID    string
	Command      string

	// Stats API
	StatsAPIKey  string
	StatsURL     string
	StatsTimeout time.Duration

	// Leaderboard
	Schedule        string
	LeaderboardSize int

	// Ops
	HTTPAddr string
	DBDsn    string
}

// Load reads environment variables and applies defaults. It doesn't fail if credentials are missing;
// call Validate before connecting. Malformed numeric or duration values are reported as errors.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DiscordToken = os.Getenv("DISCORD_TOKEN")
	if cfg.DiscordToken == "" {
		// legacy name used by the first deployment
		cfg.DiscordToken = os.Getenv("TOKEN")
	}
	cfg.ChannelID = strings.TrimSpace(os.Getenv("CHANNEL_ID"))
	cfg.Command = os.Getenv("LEADERBOARD_COMMAND")
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}

	cfg.StatsAPIKey = os.Getenv("API_KEY")
	cfg.StatsURL = os.Getenv("STATS_API_URL")
	if cfg.StatsURL == "" {
		cfg.StatsURL = DefaultStatsURL
	}
	cfg.StatsTimeout = 15 * time.Second
	if v := os.Getenv("STATS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid STATS_TIMEOUT %q (want positive duration)", v)
		}
		cfg.StatsTimeout = d
	}

	cfg.Schedule = os.Getenv("LEADERBOARD_SCHEDULE")
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	cfg.LeaderboardSize = DefaultLeaderboardSize
	if v := os.Getenv("LEADERBOARD_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid LEADERBOARD_SIZE %q (want positive integer)", v)
		}
		cfg.LeaderboardSize = n
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	// Empty DSN disables the publish audit log.
	cfg.DBDsn = os.Getenv("DB_DSN")

	return cfg, nil
}

// Validate checks the fields required to log in and publish.
func (c *Config) Validate() error {
	var missing []string
	if c.DiscordToken == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if c.StatsAPIKey == "" {
		missing = append(missing, "API_KEY")
	}
	if c.ChannelID == "" {
		missing = append(missing, "CHANNEL_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}
	return nil
}

// HTTPEnabled reports whether the ops HTTP server should be started.
func (c *Config) HTTPEnabled() bool {
	return c.HTTPAddr != "off" && c.HTTPAddr != "0"
}

// AuditEnabled reports whether publish runs are persisted to Postgres.
func (c *Config) AuditEnabled() bool { return c.DBDsn != "" }
