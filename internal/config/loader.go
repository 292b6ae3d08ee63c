package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load merges an optional TOML file at path over the defaults, then applies
// AUCTIONER_* environment overrides (a .env file is loaded first if present).
// A missing file is not an error; an empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// server
	setStr(&cfg.Server.Port, "PORT")
	setStr(&cfg.Server.Port, "AUCTIONER_SERVER_PORT")
	setInt(&cfg.Server.BidsPerMinute, "AUCTIONER_SERVER_BIDS_PER_MINUTE")

	// auction
	setInt64(&cfg.Auction.BidStep, "AUCTIONER_AUCTION_BID_STEP")
	setInt64(&cfg.Auction.BudgetCeiling, "AUCTIONER_AUCTION_BUDGET_CEILING")
	setDuration(&cfg.Auction.Countdown, "AUCTIONER_AUCTION_COUNTDOWN")
	setDuration(&cfg.Auction.TickInterval, "AUCTIONER_AUCTION_TICK_INTERVAL")
	setDuration(&cfg.Auction.PollInterval, "AUCTIONER_AUCTION_POLL_INTERVAL")
	setDuration(&cfg.Auction.RequestTimeout, "AUCTIONER_AUCTION_REQUEST_TIMEOUT")

	// client
	setStr(&cfg.Client.AuthorityURL, "AUCTIONER_CLIENT_AUTHORITY_URL")
	setStr(&cfg.Client.EventsURL, "AUCTIONER_CLIENT_EVENTS_URL")
	setStr(&cfg.Client.SessionID, "AUCTIONER_CLIENT_SESSION_ID")
	setStr(&cfg.Client.UserID, "AUCTIONER_CLIENT_USER_ID")
	setStr(&cfg.Client.Role, "AUCTIONER_CLIENT_ROLE")
	setStr(&cfg.Client.TeamID, "AUCTIONER_CLIENT_TEAM_ID")
	setBool(&cfg.Client.AutoStart, "AUCTIONER_CLIENT_AUTO_START")

	setInt(&cfg.Match.Overs, "AUCTIONER_MATCH_OVERS")
	setStr(&cfg.Log.Level, "AUCTIONER_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
