package authority

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"auctioner/internal/auction"
	"auctioner/internal/biddingerrors"
	"auctioner/internal/models"
	"auctioner/internal/repository"
	"auctioner/internal/simulator"
	"auctioner/utils"
)

// Publisher receives an event after every committed mutation
type Publisher interface {
	Publish(event models.Event)
}

// Options configures an AuctionService
type Options struct {
	Rules         auction.Rules
	BidsPerMinute int
	Overs         int
	Clock         clockwork.Clock
	Publisher     Publisher
}

// AuctionService is the authoritative auction: it owns every session and is
// the only writer of player and team records.
type AuctionService struct {
	repo      repository.RosterDB
	rules     auction.Rules
	clock     clockwork.Clock
	limiter   *RateLimiter
	publisher Publisher
	sim       simulator.Simulator

	mu       sync.Mutex
	sessions map[string]*session
	latest   string
}

type session struct {
	id        string
	version   int64
	status    models.AuctionStatus
	lot       *models.Lot
	revenue   int64
	updatedAt time.Time
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.RosterDB, opts Options) *AuctionService {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Overs <= 0 {
		opts.Overs = simulator.DefaultOvers
	}
	return &AuctionService{
		repo:      repo,
		rules:     opts.Rules,
		clock:     opts.Clock,
		limiter:   NewRateLimiter(opts.Clock, opts.BidsPerMinute, time.Minute),
		publisher: opts.Publisher,
		sim:       simulator.Simulator{Overs: opts.Overs},
		sessions:  make(map[string]*session),
	}
}

// StartSession creates a session when sessionID is empty and opens a lot for
// playerID. An existing paused session resumes its open lot; one that never
// started opens playerID.
func (s *AuctionService) StartSession(caller models.Caller, sessionID, playerID string) (models.Snapshot, error) {
	if !caller.IsAdmin() {
		return models.Snapshot{}, fmt.Errorf("service: %w - start session", biddingerrors.ErrNotAuthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var sess *session
	if sessionID == "" {
		sess = &session{id: utils.NewSessionID(), status: models.StatusNotStarted}
	} else {
		var err error
		if sess, err = s.sessionLocked(sessionID); err != nil {
			return models.Snapshot{}, err
		}
	}

	switch {
	case sess.status == models.StatusPaused && sess.lot != nil:
		sess.status = models.StatusInProgress
	case sess.status == models.StatusNotStarted || sess.status == models.StatusPaused:
		if err := s.openLotLocked(sess, playerID); err != nil {
			return models.Snapshot{}, err
		}
	default:
		return models.Snapshot{}, fmt.Errorf("service: %w - start from %s", biddingerrors.ErrInvalidTransition, sess.status)
	}

	s.sessions[sess.id] = sess
	s.latest = sess.id
	snap := s.commitLocked(sess, models.EventLotChanged)
	utils.Info("authority: session started", map[string]any{"session_id": sess.id, "player_id": sess.lot.Player.PlayerID})
	return snap, nil
}

// Pause suspends bidding on an in-progress session
func (s *AuctionService) Pause(caller models.Caller, sessionID string) (models.Snapshot, error) {
	if !caller.IsAdmin() {
		return models.Snapshot{}, fmt.Errorf("service: %w - pause", biddingerrors.ErrNotAuthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if sess.status != models.StatusInProgress {
		return models.Snapshot{}, fmt.Errorf("service: %w - pause from %s", biddingerrors.ErrInvalidTransition, sess.status)
	}
	sess.status = models.StatusPaused
	return s.commitLocked(sess, models.EventLotChanged), nil
}

// PlaceBid validates and records a bid on the open lot. A bid made against a
// version older than the session's is rejected as outbid.
func (s *AuctionService) PlaceBid(caller models.Caller, req models.BidRequest) (models.Snapshot, error) {
	if req.SessionID == "" || req.TeamID == "" {
		return models.Snapshot{}, fmt.Errorf("service: %w - missing sessionID or teamID", biddingerrors.ErrInvalidBid)
	}
	if !s.limiter.Allow(caller.UserID) {
		utils.Warn("authority: bid rate limited", map[string]any{"user_id": caller.UserID})
		return models.Snapshot{}, fmt.Errorf("service: %w - user %s", biddingerrors.ErrRateLimited, caller.UserID)
	}

	team, err := s.repo.GetTeam(req.TeamID)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("service: failed to load team %s: %w", req.TeamID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(req.SessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if sess.status != models.StatusInProgress {
		return models.Snapshot{}, fmt.Errorf("service: %w - session is %s", biddingerrors.ErrAuctionNotInProgress, sess.status)
	}
	if req.Version > 0 && req.Version != sess.version {
		return models.Snapshot{}, fmt.Errorf("service: %w - bid made at version %d, session is at %d", biddingerrors.ErrOutbid, req.Version, sess.version)
	}
	// winning bids elsewhere are committed spend until those lots resolve
	team.BudgetSpent += s.pendingLocked(team.TeamID, sess.id)
	if err := s.rules.ValidateBid(caller, sess.lot, team, req.Amount); err != nil {
		return models.Snapshot{}, fmt.Errorf("service: %w", err)
	}

	bid := models.Bid{
		BidID:     utils.NewBidID(),
		PlayerID:  sess.lot.Player.PlayerID,
		TeamID:    req.TeamID,
		Amount:    req.Amount,
		CreatedAt: s.clock.Now().UTC(),
	}
	sess.lot.CurrentBid = &bid
	sess.lot.History = append(sess.lot.History, bid)

	utils.Info("authority: bid placed", map[string]any{"session_id": sess.id, "team_id": bid.TeamID, "amount": bid.Amount})
	return s.commitLocked(sess, models.EventBidPlaced), nil
}

// MarkSold assigns the lot's player to the high bidder and charges its budget
func (s *AuctionService) MarkSold(caller models.Caller, sessionID string) (models.Snapshot, error) {
	if !caller.IsAdmin() {
		return models.Snapshot{}, fmt.Errorf("service: %w - mark sold", biddingerrors.ErrNotAuthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if sess.status != models.StatusInProgress {
		return models.Snapshot{}, fmt.Errorf("service: %w - session is %s", biddingerrors.ErrAuctionNotInProgress, sess.status)
	}
	bid := sess.lot.CurrentBid
	if bid == nil {
		return models.Snapshot{}, fmt.Errorf("service: %w - %s", biddingerrors.ErrNoBidToSell, sess.lot.Player.PlayerID)
	}

	if err := s.repo.AssignPlayer(bid.PlayerID, bid.TeamID, bid.Amount); err != nil {
		return models.Snapshot{}, fmt.Errorf("service: failed to assign player %s: %w", bid.PlayerID, err)
	}
	if p, err := s.repo.GetPlayer(bid.PlayerID); err == nil {
		sess.lot.Player = p
	}
	sess.revenue += bid.Amount
	sess.status = models.StatusPlayerSold

	utils.Info("authority: player sold", map[string]any{"session_id": sess.id, "player_id": bid.PlayerID, "team_id": bid.TeamID, "amount": bid.Amount})
	return s.commitLocked(sess, models.EventDataChanged), nil
}

// MarkUnsold closes a lot that drew no bids
func (s *AuctionService) MarkUnsold(caller models.Caller, sessionID string) (models.Snapshot, error) {
	if !caller.IsAdmin() {
		return models.Snapshot{}, fmt.Errorf("service: %w - mark unsold", biddingerrors.ErrNotAuthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if sess.status != models.StatusInProgress {
		return models.Snapshot{}, fmt.Errorf("service: %w - session is %s", biddingerrors.ErrAuctionNotInProgress, sess.status)
	}
	if sess.lot.CurrentBid != nil {
		return models.Snapshot{}, fmt.Errorf("service: %w - %s", biddingerrors.ErrBidActive, sess.lot.Player.PlayerID)
	}

	playerID := sess.lot.Player.PlayerID
	if err := s.repo.MarkPlayerUnsold(playerID); err != nil {
		return models.Snapshot{}, fmt.Errorf("service: failed to mark player %s unsold: %w", playerID, err)
	}
	if p, err := s.repo.GetPlayer(playerID); err == nil {
		sess.lot.Player = p
	}
	sess.status = models.StatusPlayerUnsold

	utils.Info("authority: player unsold", map[string]any{"session_id": sess.id, "player_id": playerID})
	return s.commitLocked(sess, models.EventDataChanged), nil
}

// Cancel withdraws the winning bid on the open lot and pauses the session.
// The bid history is kept; resuming reopens the lot at its base price.
func (s *AuctionService) Cancel(caller models.Caller, sessionID string) (models.Snapshot, error) {
	if !caller.IsAdmin() {
		return models.Snapshot{}, fmt.Errorf("service: %w - cancel", biddingerrors.ErrNotAuthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if sess.lot == nil || (sess.status != models.StatusInProgress && sess.status != models.StatusPaused) {
		return models.Snapshot{}, fmt.Errorf("service: %w - cancel from %s", biddingerrors.ErrInvalidTransition, sess.status)
	}

	var dropped int64
	if sess.lot.CurrentBid != nil {
		dropped = sess.lot.CurrentBid.Amount
	}
	sess.lot.CurrentBid = nil
	sess.status = models.StatusPaused

	utils.Info("authority: lot cancelled", map[string]any{"session_id": sess.id, "player_id": sess.lot.Player.PlayerID, "dropped_bid": dropped})
	return s.commitLocked(sess, models.EventLotChanged), nil
}

// Advance opens the next lot on playerID, or on the first eligible player when
// playerID is empty. With nobody left the session finishes.
func (s *AuctionService) Advance(caller models.Caller, sessionID, playerID string) (models.Snapshot, error) {
	if !caller.IsAdmin() {
		return models.Snapshot{}, fmt.Errorf("service: %w - advance", biddingerrors.ErrNotAuthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if sess.status != models.StatusPlayerSold && sess.status != models.StatusPlayerUnsold {
		return models.Snapshot{}, fmt.Errorf("service: %w - advance from %s", biddingerrors.ErrInvalidTransition, sess.status)
	}

	if playerID == "" && len(s.repo.ListPlayers(true)) == 0 {
		return s.finishLocked(sess), nil
	}
	if err := s.openLotLocked(sess, playerID); err != nil {
		return models.Snapshot{}, err
	}
	return s.commitLocked(sess, models.EventLotChanged), nil
}

// Finish ends the session. An open lot must be resolved first.
func (s *AuctionService) Finish(caller models.Caller, sessionID string) (models.Snapshot, error) {
	if !caller.IsAdmin() {
		return models.Snapshot{}, fmt.Errorf("service: %w - finish", biddingerrors.ErrNotAuthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	switch sess.status {
	case models.StatusFinished:
		return snapshotOf(sess), nil
	case models.StatusInProgress:
		return models.Snapshot{}, fmt.Errorf("service: %w - resolve the open lot first", biddingerrors.ErrInvalidTransition)
	}
	return s.finishLocked(sess), nil
}

// Snapshot returns a session's state. An empty sessionID means the latest session.
func (s *AuctionService) Snapshot(sessionID string) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" {
		sessionID = s.latest
	}
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	return snapshotOf(sess), nil
}

// Players lists the roster, optionally only players still up for auction
func (s *AuctionService) Players(eligibleOnly bool) []models.Player {
	return s.repo.ListPlayers(eligibleOnly)
}

// Teams lists all teams with their current spend
func (s *AuctionService) Teams() []models.Team {
	return s.repo.ListTeams()
}

// SimulateMatch plays the squads two teams bought against each other.
// A nil seed draws one from the clock.
func (s *AuctionService) SimulateMatch(teamA, teamB string, seed *uint64) (simulator.MatchResult, error) {
	if teamA == "" || teamB == "" || teamA == teamB {
		return simulator.MatchResult{}, fmt.Errorf("service: %w - two different teams required", biddingerrors.ErrInvalidBid)
	}

	rosters := make([]simulator.Roster, 0, 2)
	for _, id := range []string{teamA, teamB} {
		team, err := s.repo.GetTeam(id)
		if err != nil {
			return simulator.MatchResult{}, fmt.Errorf("service: failed to load team %s: %w", id, err)
		}
		rosters = append(rosters, simulator.Roster{TeamID: team.TeamID, Name: team.Name, Players: s.repo.TeamPlayers(id)})
	}

	var src uint64
	if seed != nil {
		src = *seed
	} else {
		src = uint64(s.clock.Now().UnixNano())
	}

	result, err := s.sim.Simulate(rosters[0], rosters[1], simulator.NewSource(src))
	if err != nil {
		return simulator.MatchResult{}, fmt.Errorf("service: %w", err)
	}
	utils.Info("authority: match simulated", map[string]any{"team_a": teamA, "team_b": teamB, "seed": src, "winner": result.WinnerID})
	return result, nil
}

func (s *AuctionService) sessionLocked(sessionID string) (*session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("service: %w - %q", biddingerrors.ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

// pendingLocked sums teamID's winning bids on the open lots of every session but exclude
func (s *AuctionService) pendingLocked(teamID, exclude string) int64 {
	var total int64
	for id, sess := range s.sessions {
		if id == exclude || sess.lot == nil || sess.lot.CurrentBid == nil {
			continue
		}
		if sess.status != models.StatusInProgress && sess.status != models.StatusPaused {
			continue
		}
		if sess.lot.CurrentBid.TeamID == teamID {
			total += sess.lot.CurrentBid.Amount
		}
	}
	return total
}

// openLotLocked puts playerID, or the first eligible player, up for bidding
func (s *AuctionService) openLotLocked(sess *session, playerID string) error {
	var player models.Player
	if playerID == "" {
		eligible := s.repo.ListPlayers(true)
		if len(eligible) == 0 {
			return fmt.Errorf("service: %w", biddingerrors.ErrNoEligiblePlayers)
		}
		player = eligible[0]
	} else {
		p, err := s.repo.GetPlayer(playerID)
		if err != nil {
			return fmt.Errorf("service: failed to open lot: %w", err)
		}
		if !p.Eligible() {
			return fmt.Errorf("service: %w - %s is %s", biddingerrors.ErrPlayerNotOpen, p.PlayerID, p.Status)
		}
		player = p
	}

	sess.lot = &models.Lot{Player: player}
	sess.status = models.StatusInProgress
	return nil
}

func (s *AuctionService) finishLocked(sess *session) models.Snapshot {
	sess.lot = nil
	sess.status = models.StatusFinished
	utils.Info("authority: session finished", map[string]any{"session_id": sess.id, "revenue": sess.revenue})
	return s.commitLocked(sess, models.EventLotChanged)
}

// commitLocked bumps the version and notifies subscribers
func (s *AuctionService) commitLocked(sess *session, kind models.EventType) models.Snapshot {
	sess.version++
	sess.updatedAt = s.clock.Now().UTC()
	if s.publisher != nil {
		s.publisher.Publish(models.Event{Type: kind, SessionID: sess.id, Version: sess.version})
	}
	return snapshotOf(sess)
}

func snapshotOf(sess *session) models.Snapshot {
	snap := models.Snapshot{
		SessionID:    sess.id,
		Version:      sess.version,
		Status:       sess.status,
		TotalRevenue: sess.revenue,
		UpdatedAt:    sess.updatedAt,
		History:      []models.Bid{},
	}
	if sess.lot != nil {
		player := sess.lot.Player
		snap.CurrentPlayer = &player
		if sess.lot.CurrentBid != nil {
			bid := *sess.lot.CurrentBid
			snap.CurrentBid = &bid
		}
		snap.History = append(snap.History, sess.lot.History...)
	}
	return snap
}
