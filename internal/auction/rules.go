package auction

import (
	"fmt"

	"auctioner/internal/biddingerrors"
	"auctioner/internal/models"
)

// Rules are the bid acceptance rules shared by the client engine and the authority
type Rules struct {
	Step int64 // increment step every bid must be a multiple of
}

// ValidateBid checks a bid for team on lot against the caller's capability,
// the increment step, the current floor, and the team's budget ceiling.
func (r Rules) ValidateBid(caller models.Caller, lot *models.Lot, team models.Team, amount int64) error {
	if team.TeamID == "" {
		return fmt.Errorf("rules: %w - missing team", biddingerrors.ErrInvalidBid)
	}
	if lot == nil {
		return fmt.Errorf("rules: %w - no open lot", biddingerrors.ErrAuctionNotInProgress)
	}
	if !caller.CanBidFor(team.TeamID) {
		return fmt.Errorf("rules: %w - %s may not bid for %s", biddingerrors.ErrNotYourTeam, caller.UserID, team.TeamID)
	}
	if amount <= 0 {
		return fmt.Errorf("rules: %w - amount must be positive", biddingerrors.ErrBidTooLow)
	}
	if r.Step > 0 && amount%r.Step != 0 {
		return fmt.Errorf("rules: %w - %d is not a multiple of %d", biddingerrors.ErrBidTooLow, amount, r.Step)
	}
	if floor := lot.Floor(); amount <= floor {
		return fmt.Errorf("rules: %w - must exceed %d", biddingerrors.ErrBidTooLow, floor)
	}
	if team.BudgetSpent+amount > team.BudgetCeiling {
		return fmt.Errorf("rules: %w - %s has %d of %d left", biddingerrors.ErrBudgetExceeded, team.TeamID, team.Remaining(), team.BudgetCeiling)
	}
	return nil
}

// NextBid returns the smallest valid amount above the lot's current floor
func (r Rules) NextBid(lot *models.Lot) int64 {
	floor := lot.Floor()
	if r.Step <= 0 {
		return floor + 1
	}
	return (floor/r.Step + 1) * r.Step
}
