package helpers

// Request/Response DTOs
type StartSessionRequest struct {
	PlayerID string `json:"player_id"`
}

type PlaceBidRequest struct {
	TeamID  string `json:"team_id" binding:"required"`
	Amount  int64  `json:"amount"`
	Version int64  `json:"version" binding:"gte=0"`
}

type AdvanceRequest struct {
	PlayerID string `json:"player_id"`
}

type SimulateMatchRequest struct {
	TeamA string  `json:"team_a" binding:"required"`
	TeamB string  `json:"team_b" binding:"required,nefield=TeamA"`
	Seed  *uint64 `json:"seed"`
}
