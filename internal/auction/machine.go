// Package auction is the client-side auction lifecycle engine. The Machine
// validates operations locally, forwards them to the remote Authority and
// applies the authoritative snapshots it gets back; ResyncService keeps it
// converged with the authority between operations.
package auction

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"auctioner/internal/bidgate"
	"auctioner/internal/biddingerrors"
	"auctioner/internal/models"
	"auctioner/utils"
)

// Options configures a Machine
type Options struct {
	Caller         models.Caller
	Rules          Rules
	Countdown      time.Duration // full countdown restored on every new lot and accepted bid
	TickStep       time.Duration // how much one Tick takes off the countdown
	RequestTimeout time.Duration
	SessionID      string
	OnChange       func(State) // called after every applied change, outside the lock
}

// State is a read-only copy of the machine for rendering
type State struct {
	SessionID   string
	Status      models.AuctionStatus
	Lot         *models.Lot
	Remaining   time.Duration
	Version     int64
	Queue       []models.Player
	Teams       []models.Team
	BidInFlight bool
}

// Machine is the auction state machine. Its fields are written only by its
// operations and by Reconcile.
type Machine struct {
	authority Authority
	roster    Roster
	opts      Options
	gate      bidgate.Gate

	// opMu serializes administrator operations, including auto-hammer
	opMu    sync.Mutex
	hammers sync.WaitGroup

	mu          sync.Mutex
	sessionID   string
	status      models.AuctionStatus
	lot         *models.Lot
	queue       []models.Player
	teams       map[string]models.Team
	settled     map[string]bool // players whose sale is already in the team ledger
	remaining   time.Duration
	version     int64
	lotSeq      int64 // bumped whenever the countdown restarts
	hammeredLot int64 // lotSeq the auto-hammer already fired for

	conflicts chan struct{}
}

// NewMachine creates a Machine in the not-started state
func NewMachine(authority Authority, roster Roster, opts Options) *Machine {
	if opts.TickStep <= 0 {
		opts.TickStep = time.Second
	}
	return &Machine{
		authority: authority,
		roster:    roster,
		opts:      opts,
		sessionID: opts.SessionID,
		status:    models.StatusNotStarted,
		teams:     make(map[string]models.Team),
		settled:   make(map[string]bool),
		conflicts: make(chan struct{}, 1),
	}
}

// Conflicts signals whenever the authority reports that a competing bid won the race
func (m *Machine) Conflicts() <-chan struct{} {
	return m.conflicts
}

// SessionID returns the session the machine is bound to, empty before the first start or sync
func (m *Machine) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// State returns a copy of the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Machine) stateLocked() State {
	st := State{
		SessionID:   m.sessionID,
		Status:      m.status,
		Remaining:   m.remaining,
		Version:     m.version,
		Queue:       append([]models.Player(nil), m.queue...),
		BidInFlight: m.gate.Held(),
	}
	if m.lot != nil {
		st.Lot = copyLot(m.lot)
	}
	st.Teams = make([]models.Team, 0, len(m.teams))
	for _, t := range m.teams {
		st.Teams = append(st.Teams, t)
	}
	sort.Slice(st.Teams, func(i, j int) bool { return st.Teams[i].TeamID < st.Teams[j].TeamID })
	return st
}

// RefreshRoster reloads teams and the eligible-player queue. The roster is authoritative.
func (m *Machine) RefreshRoster(ctx context.Context) error {
	ctx, cancel := m.callContext(ctx)
	defer cancel()

	players, err := m.roster.EligiblePlayers(ctx)
	if err != nil {
		return fmt.Errorf("machine: load eligible players: %w", err)
	}
	teams, err := m.roster.Teams(ctx)
	if err != nil {
		return fmt.Errorf("machine: load teams: %w", err)
	}

	m.mu.Lock()
	m.queue = m.queue[:0]
	for _, p := range players {
		if p.Eligible() {
			m.queue = append(m.queue, p)
		}
	}
	clear(m.teams)
	for _, t := range teams {
		m.teams[t.TeamID] = t
	}
	// an open lot whose player left the eligible list was already resolved
	// remotely, and the fresh team budgets include any sale of it
	if m.lot != nil && !slices.ContainsFunc(m.queue, func(p models.Player) bool { return p.PlayerID == m.lot.Player.PlayerID }) {
		m.settled[m.lot.Player.PlayerID] = true
	}
	queued := len(m.queue)
	m.mu.Unlock()

	utils.Debug("auction: roster refreshed", map[string]any{"eligible": queued, "teams": len(teams)})
	m.notify()
	return nil
}

// Start opens the first eligible lot and asks the authority to activate the session.
// Valid from not_started and paused.
func (m *Machine) Start(ctx context.Context) error {
	if !m.opts.Caller.IsAdmin() {
		return fmt.Errorf("machine: start: %w", biddingerrors.ErrNotAuthorized)
	}
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	status := m.status
	m.mu.Unlock()
	if status != models.StatusNotStarted && status != models.StatusPaused {
		return fmt.Errorf("machine: start from %s: %w", status, biddingerrors.ErrInvalidTransition)
	}

	if err := m.RefreshRoster(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return fmt.Errorf("machine: start: %w", biddingerrors.ErrNoEligiblePlayers)
	}
	head := m.queue[0]
	sessionID := m.sessionID
	m.mu.Unlock()

	callCtx, cancel := m.callContext(ctx)
	defer cancel()
	snap, err := m.authority.StartSession(callCtx, sessionID, head.PlayerID)
	if err != nil {
		return m.remoteFailure("start", err)
	}

	m.mu.Lock()
	m.applySnapshotLocked(snap)
	m.openLotLocked()
	m.mu.Unlock()

	utils.Info("auction: started", map[string]any{"session_id": snap.SessionID, "player_id": head.PlayerID})
	m.notify()
	return nil
}

// PlaceBid submits a bid for teamID. Only one bid may be in flight at a time;
// a concurrent call fails with ErrBidInFlight instead of queueing.
func (m *Machine) PlaceBid(ctx context.Context, teamID string, amount int64) (models.Bid, error) {
	if !m.gate.TryAcquire() {
		return models.Bid{}, fmt.Errorf("machine: place bid: %w", biddingerrors.ErrBidInFlight)
	}
	defer m.gate.Release()

	m.mu.Lock()
	if m.status != models.StatusInProgress || m.lot == nil {
		status := m.status
		m.mu.Unlock()
		return models.Bid{}, fmt.Errorf("machine: place bid in %s: %w", status, biddingerrors.ErrAuctionNotInProgress)
	}
	team, ok := m.teams[teamID]
	if !ok {
		m.mu.Unlock()
		return models.Bid{}, fmt.Errorf("machine: place bid: %w - %s", biddingerrors.ErrTeamNotFound, teamID)
	}
	if err := m.opts.Rules.ValidateBid(m.opts.Caller, m.lot, team, amount); err != nil {
		m.mu.Unlock()
		utils.Warn("auction: bid rejected locally", map[string]any{"team_id": teamID, "amount": amount, "error": err.Error()})
		return models.Bid{}, fmt.Errorf("machine: %w", err)
	}
	req := models.BidRequest{
		SessionID: m.sessionID,
		TeamID:    teamID,
		Amount:    amount,
		Version:   m.version,
	}
	playerID := m.lot.Player.PlayerID
	m.mu.Unlock()

	callCtx, cancel := m.callContext(ctx)
	defer cancel()
	snap, err := m.authority.SubmitBid(callCtx, req)
	if err != nil {
		return models.Bid{}, m.remoteFailure("place bid", err)
	}

	m.mu.Lock()
	m.applySnapshotLocked(snap)
	m.mu.Unlock()

	bid := models.Bid{PlayerID: playerID, TeamID: teamID, Amount: amount}
	if snap.CurrentBid != nil {
		bid = *snap.CurrentBid
	}
	utils.Info("auction: bid accepted", map[string]any{"team_id": teamID, "amount": amount, "version": snap.Version})
	m.notify()
	return bid, nil
}

// MarkSold sells the lot to the current high bidder
func (m *Machine) MarkSold(ctx context.Context) error {
	if !m.opts.Caller.IsAdmin() {
		return fmt.Errorf("machine: mark sold: %w", biddingerrors.ErrNotAuthorized)
	}
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.markSold(ctx)
}

func (m *Machine) markSold(ctx context.Context) error {
	m.mu.Lock()
	if m.status != models.StatusInProgress || m.lot == nil {
		status := m.status
		m.mu.Unlock()
		return fmt.Errorf("machine: mark sold in %s: %w", status, biddingerrors.ErrAuctionNotInProgress)
	}
	if m.lot.CurrentBid == nil {
		m.mu.Unlock()
		return fmt.Errorf("machine: mark sold: %w", biddingerrors.ErrNoBidToSell)
	}
	sessionID := m.sessionID
	m.mu.Unlock()

	callCtx, cancel := m.callContext(ctx)
	defer cancel()
	snap, err := m.authority.MarkSold(callCtx, sessionID)
	if err != nil {
		return m.remoteFailure("mark sold", err)
	}

	m.mu.Lock()
	m.applySnapshotLocked(snap)
	m.mu.Unlock()
	m.notify()
	return nil
}

// MarkUnsold closes the lot without a sale. A lot holding a bid must be sold instead.
func (m *Machine) MarkUnsold(ctx context.Context) error {
	if !m.opts.Caller.IsAdmin() {
		return fmt.Errorf("machine: mark unsold: %w", biddingerrors.ErrNotAuthorized)
	}
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.markUnsold(ctx)
}

func (m *Machine) markUnsold(ctx context.Context) error {
	m.mu.Lock()
	if m.status != models.StatusInProgress || m.lot == nil {
		status := m.status
		m.mu.Unlock()
		return fmt.Errorf("machine: mark unsold in %s: %w", status, biddingerrors.ErrAuctionNotInProgress)
	}
	if m.lot.CurrentBid != nil {
		m.mu.Unlock()
		return fmt.Errorf("machine: mark unsold: %w", biddingerrors.ErrBidActive)
	}
	sessionID := m.sessionID
	m.mu.Unlock()

	callCtx, cancel := m.callContext(ctx)
	defer cancel()
	snap, err := m.authority.MarkUnsold(callCtx, sessionID)
	if err != nil {
		return m.remoteFailure("mark unsold", err)
	}

	m.mu.Lock()
	m.applySnapshotLocked(snap)
	m.mu.Unlock()
	m.notify()
	return nil
}

// Advance opens the next eligible lot, or finishes the session when none remain
func (m *Machine) Advance(ctx context.Context) error {
	if !m.opts.Caller.IsAdmin() {
		return fmt.Errorf("machine: advance: %w", biddingerrors.ErrNotAuthorized)
	}
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.status != models.StatusPlayerSold && m.status != models.StatusPlayerUnsold {
		status := m.status
		m.mu.Unlock()
		return fmt.Errorf("machine: advance from %s: %w", status, biddingerrors.ErrInvalidTransition)
	}
	sessionID := m.sessionID
	var next string
	if len(m.queue) > 0 {
		next = m.queue[0].PlayerID
	}
	m.mu.Unlock()

	callCtx, cancel := m.callContext(ctx)
	defer cancel()

	var (
		snap models.Snapshot
		err  error
	)
	if next == "" {
		snap, err = m.authority.Finish(callCtx, sessionID)
	} else {
		snap, err = m.authority.Advance(callCtx, sessionID, next)
	}
	if err != nil {
		return m.remoteFailure("advance", err)
	}

	m.mu.Lock()
	m.applySnapshotLocked(snap)
	status := m.status
	m.mu.Unlock()

	if status == models.StatusFinished {
		utils.Info("auction: finished", map[string]any{"session_id": sessionID})
	} else {
		utils.Info("auction: lot opened", map[string]any{"session_id": sessionID, "player_id": next})
	}
	m.notify()
	return nil
}

// Pause suspends bidding. Only an in-progress auction can be paused.
func (m *Machine) Pause(ctx context.Context) error {
	if !m.opts.Caller.IsAdmin() {
		return fmt.Errorf("machine: pause: %w", biddingerrors.ErrNotAuthorized)
	}
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.status != models.StatusInProgress {
		status := m.status
		m.mu.Unlock()
		return fmt.Errorf("machine: pause from %s: %w", status, biddingerrors.ErrInvalidTransition)
	}
	sessionID := m.sessionID
	m.mu.Unlock()

	callCtx, cancel := m.callContext(ctx)
	defer cancel()
	snap, err := m.authority.Pause(callCtx, sessionID)
	if err != nil {
		return m.remoteFailure("pause", err)
	}

	m.mu.Lock()
	m.applySnapshotLocked(snap)
	m.mu.Unlock()
	m.notify()
	return nil
}

// Tick takes one step off the countdown. When it reaches zero on an
// in-progress lot, an administrator client resolves the lot: sold if it holds
// a bid, unsold otherwise. Resolution fires once per expiry however many
// zero ticks arrive. Resolution runs in the background so a slow authority
// never stalls the countdown; Wait blocks until it returns.
func (m *Machine) Tick(ctx context.Context) {
	m.mu.Lock()
	if m.status != models.StatusInProgress || m.lot == nil {
		m.mu.Unlock()
		return
	}
	if m.remaining > 0 {
		m.remaining -= m.opts.TickStep
		if m.remaining < 0 {
			m.remaining = 0
		}
	}
	expired := m.remaining == 0 && m.opts.Caller.IsAdmin() && m.hammeredLot != m.lotSeq
	seq := m.lotSeq
	if expired {
		m.hammeredLot = seq
	}
	m.mu.Unlock()

	if expired {
		m.hammers.Go(func() { m.autoHammer(ctx, seq) })
	}
}

// Wait blocks until every auto-hammer started by Tick has returned
func (m *Machine) Wait() {
	m.hammers.Wait()
}

func (m *Machine) autoHammer(ctx context.Context, seq int64) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.lotSeq != seq || m.status != models.StatusInProgress || m.lot == nil {
		m.mu.Unlock()
		return
	}
	hasBid := m.lot.CurrentBid != nil
	playerID := m.lot.Player.PlayerID
	m.mu.Unlock()

	var err error
	if hasBid {
		err = m.markSold(ctx)
	} else {
		err = m.markUnsold(ctx)
	}
	if err == nil {
		utils.Info("auction: countdown expired", map[string]any{"player_id": playerID, "sold": hasBid})
		return
	}

	utils.Warn("auction: auto-hammer failed", map[string]any{"player_id": playerID, "error": err.Error()})
	if biddingerrors.IsTransport(err) {
		// nothing was resolved, let the next zero tick retry
		m.mu.Lock()
		if m.hammeredLot == seq {
			m.hammeredLot = 0
		}
		m.mu.Unlock()
	}
}

// Reconcile applies an authoritative snapshot. Snapshots older than the
// version already held are ignored; anything else that differs from local
// state replaces it. It reports whether local state changed.
func (m *Machine) Reconcile(snap models.Snapshot) bool {
	m.mu.Lock()
	changed := m.applySnapshotLocked(snap)
	m.mu.Unlock()
	if changed {
		utils.Debug("auction: reconciled", map[string]any{"session_id": snap.SessionID, "version": snap.Version, "status": snap.Status})
		m.notify()
	}
	return changed
}

func (m *Machine) applySnapshotLocked(snap models.Snapshot) bool {
	if m.sessionID != "" && snap.SessionID != "" && snap.SessionID != m.sessionID {
		return false
	}
	if snap.Version < m.version {
		return false
	}
	if m.sessionID == "" {
		m.sessionID = snap.SessionID
	}
	if m.matchesLocked(snap) {
		m.version = snap.Version
		return false
	}

	prevStatus := m.status
	var prevPlayer, prevBid string
	if m.lot != nil {
		prevPlayer = m.lot.Player.PlayerID
		if m.lot.CurrentBid != nil {
			prevBid = m.lot.CurrentBid.BidID
		}
	}

	m.status = snap.Status
	m.version = snap.Version
	if snap.CurrentPlayer != nil {
		m.lot = &models.Lot{
			Player:  *snap.CurrentPlayer,
			History: append([]models.Bid(nil), snap.History...),
		}
		if snap.CurrentBid != nil {
			bid := *snap.CurrentBid
			m.lot.CurrentBid = &bid
		}
	} else {
		m.lot = nil
	}

	var curPlayer, curBid string
	if m.lot != nil {
		curPlayer = m.lot.Player.PlayerID
		if m.lot.CurrentBid != nil {
			curBid = m.lot.CurrentBid.BidID
		}
	}

	if prevPlayer != "" && prevPlayer != curPlayer {
		// the previous lot was resolved remotely
		m.dropFromQueueLocked(prevPlayer)
	}

	switch m.status {
	case models.StatusInProgress:
		if curPlayer != prevPlayer || prevStatus != models.StatusInProgress {
			m.openLotLocked()
		} else if curBid != prevBid {
			// a new bid restarts the countdown and re-arms the auto-hammer
			m.openLotLocked()
		}
	case models.StatusPlayerSold:
		if m.lot != nil && m.lot.CurrentBid != nil {
			m.settleSaleLocked(m.lot.Player, *m.lot.CurrentBid)
		}
	case models.StatusPlayerUnsold:
		if m.lot != nil {
			m.dropFromQueueLocked(m.lot.Player.PlayerID)
		}
	case models.StatusFinished:
		m.queue = nil
		m.remaining = 0
	}
	return true
}

func (m *Machine) matchesLocked(snap models.Snapshot) bool {
	if snap.Status != m.status {
		return false
	}
	if (snap.CurrentPlayer == nil) != (m.lot == nil) {
		return false
	}
	if m.lot == nil {
		return true
	}
	if snap.CurrentPlayer.PlayerID != m.lot.Player.PlayerID {
		return false
	}
	if (snap.CurrentBid == nil) != (m.lot.CurrentBid == nil) {
		return false
	}
	if snap.CurrentBid != nil && snap.CurrentBid.BidID != m.lot.CurrentBid.BidID {
		return false
	}
	return len(snap.History) == len(m.lot.History)
}

// openLotLocked starts a fresh expiry window for the current lot. A hammer
// pending for an earlier window sees the new lotSeq and stands down.
func (m *Machine) openLotLocked() {
	m.lotSeq++
	m.remaining = m.opts.Countdown
}

func (m *Machine) settleSaleLocked(player models.Player, bid models.Bid) {
	if m.settled[player.PlayerID] {
		return
	}
	m.settled[player.PlayerID] = true
	if team, ok := m.teams[bid.TeamID]; ok {
		team.BudgetSpent += bid.Amount
		m.teams[bid.TeamID] = team
	}
	m.dropFromQueueLocked(player.PlayerID)
	utils.Info("auction: player sold", map[string]any{"player_id": player.PlayerID, "team_id": bid.TeamID, "amount": bid.Amount})
}

func (m *Machine) dropFromQueueLocked(playerID string) {
	m.queue = slices.DeleteFunc(m.queue, func(p models.Player) bool { return p.PlayerID == playerID })
}

// remoteFailure classifies an authority error. A lost bidding race asks for an
// immediate resync; nothing else touches local state.
func (m *Machine) remoteFailure(op string, err error) error {
	switch {
	case errors.Is(err, biddingerrors.ErrOutbid):
		utils.Warn("auction: lost race, resyncing", map[string]any{"op": op, "error": err.Error()})
		m.signalConflict()
	case biddingerrors.IsTransport(err):
		utils.Warn("auction: authority unreachable, retry later", map[string]any{"op": op, "error": err.Error()})
		if !errors.Is(err, biddingerrors.ErrTransport) {
			return fmt.Errorf("machine: %s: %w: %w", op, biddingerrors.ErrTransport, err)
		}
	default:
		utils.Warn("auction: authority rejected request", map[string]any{"op": op, "error": err.Error()})
	}
	return fmt.Errorf("machine: %s: %w", op, err)
}

func (m *Machine) signalConflict() {
	select {
	case m.conflicts <- struct{}{}:
	default:
	}
}

func (m *Machine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.opts.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.opts.RequestTimeout)
}

func (m *Machine) notify() {
	if m.opts.OnChange == nil {
		return
	}
	m.opts.OnChange(m.State())
}

func copyLot(l *models.Lot) *models.Lot {
	out := &models.Lot{
		Player:  l.Player,
		History: append([]models.Bid(nil), l.History...),
	}
	if l.CurrentBid != nil {
		bid := *l.CurrentBid
		out.CurrentBid = &bid
	}
	return out
}
