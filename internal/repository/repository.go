package repository

import (
	"fmt"
	"sync"

	"auctioner/internal/biddingerrors"
	"auctioner/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// RosterDB defines the player and team storage interface for the auction system
type RosterDB interface {
	GetPlayer(playerID string) (models.Player, error)
	ListPlayers(eligibleOnly bool) []models.Player
	TeamPlayers(teamID string) []models.Player
	GetTeam(teamID string) (models.Team, error)
	ListTeams() []models.Team
	AssignPlayer(playerID, teamID string, price int64) error
	MarkPlayerUnsold(playerID string) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of RosterDB
type MemoryRepo struct {
	mu          sync.RWMutex
	players     map[string]models.Player // key: playerID -> value: player
	playerOrder []string                 // roster order, which is also auction order
	teams       map[string]models.Team   // key: teamID -> value: team
	teamOrder   []string
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		players: make(map[string]models.Player),
		teams:   make(map[string]models.Team),
	}
}

// AddPlayer adds or replaces a player. New players join the end of the roster.
func (r *MemoryRepo) AddPlayer(p models.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.Status == "" {
		p.Status = models.PlayerAvailable
	}
	if _, ok := r.players[p.PlayerID]; !ok {
		r.playerOrder = append(r.playerOrder, p.PlayerID)
	}
	r.players[p.PlayerID] = p
}

// AddTeam adds or replaces a team
func (r *MemoryRepo) AddTeam(t models.Team) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[t.TeamID]; !ok {
		r.teamOrder = append(r.teamOrder, t.TeamID)
	}
	r.teams[t.TeamID] = t
}

// GetPlayer returns a player by id
func (r *MemoryRepo) GetPlayer(playerID string) (models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[playerID]
	if !ok {
		return models.Player{}, fmt.Errorf("get player %s: %w", playerID, biddingerrors.ErrPlayerNotFound)
	}
	return p, nil
}

// ListPlayers returns players in roster order, optionally only those still up for auction
func (r *MemoryRepo) ListPlayers(eligibleOnly bool) []models.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]models.Player, 0, len(r.playerOrder))
	for _, id := range r.playerOrder {
		p := r.players[id]
		if eligibleOnly && !p.Eligible() {
			continue
		}
		players = append(players, p)
	}
	return players
}

// TeamPlayers returns the players sold to a team, in roster order
func (r *MemoryRepo) TeamPlayers(teamID string) []models.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var players []models.Player
	for _, id := range r.playerOrder {
		if p := r.players[id]; p.Status == models.PlayerSold && p.TeamID == teamID {
			players = append(players, p)
		}
	}
	return players
}

// GetTeam returns a team by id
func (r *MemoryRepo) GetTeam(teamID string) (models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[teamID]
	if !ok {
		return models.Team{}, fmt.Errorf("get team %s: %w", teamID, biddingerrors.ErrTeamNotFound)
	}
	return t, nil
}

// ListTeams returns all teams in the order they were added
func (r *MemoryRepo) ListTeams() []models.Team {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make([]models.Team, 0, len(r.teamOrder))
	for _, id := range r.teamOrder {
		teams = append(teams, r.teams[id])
	}
	return teams
}

// AssignPlayer sells a player to a team and charges the price to the team's budget.
// Both records change together or not at all.
func (r *MemoryRepo) AssignPlayer(playerID, teamID string, price int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return fmt.Errorf("assign player %s: %w", playerID, biddingerrors.ErrPlayerNotFound)
	}
	if p.Status != models.PlayerAvailable {
		return fmt.Errorf("assign player %s (%s): %w", playerID, p.Status, biddingerrors.ErrPlayerNotOpen)
	}
	t, ok := r.teams[teamID]
	if !ok {
		return fmt.Errorf("assign player %s to team %s: %w", playerID, teamID, biddingerrors.ErrTeamNotFound)
	}
	if t.BudgetSpent+price > t.BudgetCeiling {
		return fmt.Errorf("assign player %s to team %s: %w", playerID, teamID, biddingerrors.ErrBudgetExceeded)
	}

	p.Status = models.PlayerSold
	p.TeamID = teamID
	p.SoldPrice = price
	t.BudgetSpent += price
	r.players[playerID] = p
	r.teams[teamID] = t
	return nil
}

// MarkPlayerUnsold takes a player out of the auction without a sale
func (r *MemoryRepo) MarkPlayerUnsold(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return fmt.Errorf("mark player %s unsold: %w", playerID, biddingerrors.ErrPlayerNotFound)
	}
	if p.Status != models.PlayerAvailable {
		return fmt.Errorf("mark player %s unsold (%s): %w", playerID, p.Status, biddingerrors.ErrPlayerNotOpen)
	}
	p.Status = models.PlayerUnsold
	r.players[playerID] = p
	return nil
}
