package biddingerrors

import (
	"context"
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrSessionNotFound = errors.New("auction session not found")
	ErrPlayerNotOpen   = errors.New("player is not available for auction")
)

// validation errors
var (
	ErrInvalidBid           = errors.New("invalid bid")
	ErrBidTooLow            = errors.New("bid amount too low")
	ErrBudgetExceeded       = errors.New("team budget exceeded")
	ErrNotYourTeam          = errors.New("caller may not bid for this team")
	ErrAuctionNotInProgress = errors.New("auction is not in progress")
	ErrNoEligiblePlayers    = errors.New("no eligible players")
	ErrNotAuthorized        = errors.New("caller lacks the administrator capability")
	ErrNoBidToSell          = errors.New("no bid to sell")
	ErrBidActive            = errors.New("lot has an active bid")
	ErrInvalidTransition    = errors.New("invalid auction transition")
	ErrRateLimited          = errors.New("too many bids")
	ErrEmptyRoster          = errors.New("team has no players to field")
)

// concurrency and transport errors
var (
	ErrBidInFlight = errors.New("a bid is already in flight")
	ErrOutbid      = errors.New("a competing bid was accepted first")
	ErrTransport   = errors.New("auction authority unreachable")
)

// Reason is the machine-readable code the authority attaches to a rejection
type Reason string

const (
	ReasonInvalidBid        Reason = "invalid_bid"
	ReasonBidTooLow         Reason = "bid_too_low"
	ReasonBudgetExceeded    Reason = "budget_exceeded"
	ReasonNotYourTeam       Reason = "not_your_team"
	ReasonNotInProgress     Reason = "not_in_progress"
	ReasonNoEligiblePlayers Reason = "no_eligible_players"
	ReasonNotAuthorized     Reason = "not_authorized"
	ReasonNoBidToSell       Reason = "no_bid_to_sell"
	ReasonBidActive         Reason = "bid_active"
	ReasonInvalidTransition Reason = "invalid_transition"
	ReasonOutbid            Reason = "outbid"
	ReasonRateLimited       Reason = "rate_limited"
	ReasonPlayerNotFound    Reason = "player_not_found"
	ReasonTeamNotFound      Reason = "team_not_found"
	ReasonSessionNotFound   Reason = "session_not_found"
	ReasonPlayerNotOpen     Reason = "player_not_open"
	ReasonEmptyRoster       Reason = "empty_roster"
	ReasonInternal          Reason = "internal"
)

var reasonErrors = []struct {
	reason Reason
	err    error
}{
	{ReasonInvalidBid, ErrInvalidBid},
	{ReasonBidTooLow, ErrBidTooLow},
	{ReasonBudgetExceeded, ErrBudgetExceeded},
	{ReasonNotYourTeam, ErrNotYourTeam},
	{ReasonNotInProgress, ErrAuctionNotInProgress},
	{ReasonNoEligiblePlayers, ErrNoEligiblePlayers},
	{ReasonNotAuthorized, ErrNotAuthorized},
	{ReasonNoBidToSell, ErrNoBidToSell},
	{ReasonBidActive, ErrBidActive},
	{ReasonInvalidTransition, ErrInvalidTransition},
	{ReasonOutbid, ErrOutbid},
	{ReasonRateLimited, ErrRateLimited},
	{ReasonPlayerNotFound, ErrPlayerNotFound},
	{ReasonTeamNotFound, ErrTeamNotFound},
	{ReasonSessionNotFound, ErrSessionNotFound},
	{ReasonPlayerNotOpen, ErrPlayerNotOpen},
	{ReasonEmptyRoster, ErrEmptyRoster},
}

// ReasonOf returns the rejection code for err, or ReasonInternal if err is not a domain error
func ReasonOf(err error) Reason {
	for _, re := range reasonErrors {
		if errors.Is(err, re.err) {
			return re.reason
		}
	}
	return ReasonInternal
}

// RejectionError is a rejection received from the auction authority
type RejectionError struct {
	Reason  Reason
	Message string
	Status  int
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("authority rejected request (%s): %s", e.Reason, e.Message)
}

// Unwrap exposes the sentinel matching the reason so errors.Is works across the wire
func (e *RejectionError) Unwrap() error {
	for _, re := range reasonErrors {
		if re.reason == e.Reason {
			return re.err
		}
	}
	return nil
}

// IsTransport reports whether err is a retryable transport failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, context.DeadlineExceeded)
}
