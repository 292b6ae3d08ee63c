package config

import (
	"errors"
	"fmt"
	"time"

	"auctioner/internal/models"
)

// Config is the runtime configuration shared by the authority server and the client
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Auction AuctionConfig `toml:"auction"`
	Client  ClientConfig  `toml:"client"`
	Match   MatchConfig   `toml:"match"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Port          string `toml:"port"`
	BidsPerMinute int    `toml:"bids_per_minute"`
}

// AuctionConfig holds the bidding rules and engine cadence
type AuctionConfig struct {
	BidStep        int64    `toml:"bid_step"`
	BudgetCeiling  int64    `toml:"budget_ceiling"`
	Countdown      Duration `toml:"countdown"`
	TickInterval   Duration `toml:"tick_interval"`
	PollInterval   Duration `toml:"poll_interval"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// ClientConfig identifies the client and where the authority lives
type ClientConfig struct {
	AuthorityURL string `toml:"authority_url"`
	EventsURL    string `toml:"events_url"`
	SessionID    string `toml:"session_id"`
	UserID       string `toml:"user_id"`
	Role         string `toml:"role"`
	TeamID       string `toml:"team_id"`
	AutoStart    bool   `toml:"auto_start"`
}

type MatchConfig struct {
	Overs int `toml:"overs"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration lets TOML files carry values like "10s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for the TOML decoder
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:          "8080",
			BidsPerMinute: 30,
		},
		Auction: AuctionConfig{
			BidStep:        10_000,
			BudgetCeiling:  1_000_000,
			Countdown:      Duration{10 * time.Second},
			TickInterval:   Duration{time.Second},
			PollInterval:   Duration{2 * time.Second},
			RequestTimeout: Duration{10 * time.Second},
		},
		Client: ClientConfig{
			AuthorityURL: "http://localhost:8080",
			EventsURL:    "ws://localhost:8080/ws",
			UserID:       "viewer",
			Role:         string(models.RolePlayer),
		},
		Match: MatchConfig{Overs: 5},
		Log:   LogConfig{Level: "info"},
	}
}

// Caller builds the client identity from the configuration
func (c Config) Caller() models.Caller {
	return models.Caller{
		UserID: c.Client.UserID,
		Role:   models.UserRole(c.Client.Role),
		TeamID: c.Client.TeamID,
	}
}

// Validate rejects configurations the engine cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.Auction.BidStep <= 0 {
		errs = append(errs, errors.New("auction.bid_step must be positive"))
	}
	if c.Auction.BudgetCeiling <= 0 {
		errs = append(errs, errors.New("auction.budget_ceiling must be positive"))
	}
	if c.Auction.Countdown.Duration <= 0 {
		errs = append(errs, errors.New("auction.countdown must be positive"))
	}
	if c.Auction.TickInterval.Duration <= 0 {
		errs = append(errs, errors.New("auction.tick_interval must be positive"))
	}
	if c.Auction.PollInterval.Duration <= 0 {
		errs = append(errs, errors.New("auction.poll_interval must be positive"))
	}
	if c.Auction.RequestTimeout.Duration <= 0 {
		errs = append(errs, errors.New("auction.request_timeout must be positive"))
	}
	if c.Match.Overs <= 0 {
		errs = append(errs, errors.New("match.overs must be positive"))
	}
	switch models.UserRole(c.Client.Role) {
	case models.RoleAdmin, models.RoleTeamManager, models.RolePlayer:
	default:
		errs = append(errs, fmt.Errorf("client.role %q is not a known role", c.Client.Role))
	}
	if models.UserRole(c.Client.Role) == models.RoleTeamManager && c.Client.TeamID == "" {
		errs = append(errs, errors.New("client.team_id is required for team managers"))
	}
	return errors.Join(errs...)
}
