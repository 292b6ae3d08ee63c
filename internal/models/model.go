package models

import "time"

// UserRole is the capability a caller acts with
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleTeamManager UserRole = "team_manager"
	RolePlayer      UserRole = "player"
)

// Headers carrying the caller identity between the client and the authority
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	HeaderTeamID   = "X-Team-ID"
)

// Caller identifies who is driving an operation
type Caller struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	TeamID string   `json:"team_id,omitempty"`
}

// IsAdmin reports whether the caller holds the administrator capability
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanBidFor reports whether the caller may bid on behalf of teamID
func (c Caller) CanBidFor(teamID string) bool {
	switch c.Role {
	case RoleAdmin:
		return true
	case RoleTeamManager:
		return teamID != "" && c.TeamID == teamID
	default:
		return false
	}
}

// PlayerRole is the cricketing role of a player
type PlayerRole string

const (
	RoleBatsman      PlayerRole = "batsman"
	RoleBowler       PlayerRole = "bowler"
	RoleAllRounder   PlayerRole = "all_rounder"
	RoleWicketKeeper PlayerRole = "wicket_keeper"
)

// CanBowl reports whether the role is part of a bowling rotation
func (r PlayerRole) CanBowl() bool {
	return r == RoleBowler || r == RoleAllRounder
}

// PlayerStatus is the auction status of a player
type PlayerStatus string

const (
	PlayerAvailable PlayerStatus = "available"
	PlayerSold      PlayerStatus = "sold"
	PlayerUnsold    PlayerStatus = "unsold"
)

// PlayerStats holds the career figures the match simulator samples from
type PlayerStats struct {
	BattingAverage float64 `json:"batting_average"`
	StrikeRate     float64 `json:"strike_rate"`
	WicketsTaken   int     `json:"wickets_taken"`
	EconomyRate    float64 `json:"economy_rate"`
	MatchesPlayed  int     `json:"matches_played"`
}

// Player represents a player on the auction roster
type Player struct {
	PlayerID  string       `json:"player_id"`
	Name      string       `json:"name"`
	Role      PlayerRole   `json:"role"`
	BasePrice int64        `json:"base_price"`
	Status    PlayerStatus `json:"status"`
	Approved  bool         `json:"approved"`
	TeamID    string       `json:"team_id,omitempty"`
	SoldPrice int64        `json:"sold_price,omitempty"`
	Stats     PlayerStats  `json:"stats"`
}

// Eligible reports whether the player can still be put up for auction
func (p Player) Eligible() bool {
	return p.Approved && p.Status == PlayerAvailable
}

// Team represents a bidding franchise
type Team struct {
	TeamID        string `json:"team_id"`
	Name          string `json:"name"`
	BudgetSpent   int64  `json:"budget_spent"`
	BudgetCeiling int64  `json:"budget_ceiling"`
}

// Remaining returns the budget the team can still commit
func (t Team) Remaining() int64 {
	return t.BudgetCeiling - t.BudgetSpent
}

// Bid represents a team's bid on the current lot
type Bid struct {
	BidID     string    `json:"bid_id"`
	PlayerID  string    `json:"player_id"`
	TeamID    string    `json:"team_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// BidRequest is a bid submission as sent to the auction authority.
// Version is the session version the bidder last observed.
type BidRequest struct {
	SessionID string `json:"session_id"`
	TeamID    string `json:"team_id"`
	Amount    int64  `json:"amount"`
	Version   int64  `json:"version"`
}

// AuctionStatus is the lifecycle status of an auction session
type AuctionStatus string

const (
	StatusNotStarted   AuctionStatus = "not_started"
	StatusInProgress   AuctionStatus = "in_progress"
	StatusPaused       AuctionStatus = "paused"
	StatusPlayerSold   AuctionStatus = "player_sold"
	StatusPlayerUnsold AuctionStatus = "player_unsold"
	StatusFinished     AuctionStatus = "finished"
)

// Lot is the player currently open for bidding
type Lot struct {
	Player     Player `json:"player"`
	CurrentBid *Bid   `json:"current_bid,omitempty"`
	History    []Bid  `json:"history"` // chronological
}

// Floor returns the amount the next bid must exceed
func (l *Lot) Floor() int64 {
	if l.CurrentBid != nil {
		return l.CurrentBid.Amount
	}
	return l.Player.BasePrice
}

// Snapshot is the authoritative view of an auction session
type Snapshot struct {
	SessionID     string        `json:"session_id"`
	Version       int64         `json:"version"`
	Status        AuctionStatus `json:"status"`
	CurrentPlayer *Player       `json:"current_player,omitempty"`
	CurrentBid    *Bid          `json:"current_bid,omitempty"`
	History       []Bid         `json:"history"`
	TotalRevenue  int64         `json:"total_revenue"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// EventType names a push notification sent after a committed mutation
type EventType string

const (
	EventBidPlaced   EventType = "bid_placed"
	EventLotChanged  EventType = "lot_changed"
	EventDataChanged EventType = "data_changed"
)

// Event tells subscribers that session state moved to Version.
// Subscribers pull the snapshot; the event carries no state.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Version   int64     `json:"version"`
}
