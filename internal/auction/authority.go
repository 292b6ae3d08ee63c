package auction

import (
	"context"

	"auctioner/internal/models"
)

//go:generate mockgen -source=authority.go -destination=mock_authority.go -package=auction

// Authority is the remote source of truth for an auction session.
// Every mutating call returns the session snapshot after the mutation.
// Rejections are returned as *biddingerrors.RejectionError.
type Authority interface {
	// StartSession creates a session when sessionID is empty, otherwise reactivates it,
	// opening a lot for playerID.
	StartSession(ctx context.Context, sessionID, playerID string) (models.Snapshot, error)
	Pause(ctx context.Context, sessionID string) (models.Snapshot, error)
	SubmitBid(ctx context.Context, req models.BidRequest) (models.Snapshot, error)
	MarkSold(ctx context.Context, sessionID string) (models.Snapshot, error)
	MarkUnsold(ctx context.Context, sessionID string) (models.Snapshot, error)
	Advance(ctx context.Context, sessionID, playerID string) (models.Snapshot, error)
	Finish(ctx context.Context, sessionID string) (models.Snapshot, error)
	// FetchSnapshot returns the session state; an empty sessionID means the latest session.
	FetchSnapshot(ctx context.Context, sessionID string) (models.Snapshot, error)
}

// Roster provides the player and team records the engine bids over
type Roster interface {
	EligiblePlayers(ctx context.Context) ([]models.Player, error)
	Teams(ctx context.Context) ([]models.Team, error)
}
