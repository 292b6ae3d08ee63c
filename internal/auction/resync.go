package auction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"auctioner/internal/biddingerrors"
	"auctioner/internal/clock"
	"auctioner/utils"
)

// ResyncService keeps a Machine converged with the authority. It pulls the
// authoritative snapshot on a fixed cadence, when the view regains focus, and
// right after the machine loses a bidding race. Overlapping pulls are allowed;
// a response is applied only if no later-issued pull has been applied already.
type ResyncService struct {
	machine   *Machine
	authority Authority
	ticker    *clock.Ticker
	timeout   time.Duration

	refocus chan struct{}

	issued atomic.Int64

	mu      sync.Mutex
	applied int64

	inflight sync.WaitGroup
}

// NewResyncService creates a resync service polling on ticker's cadence
func NewResyncService(machine *Machine, authority Authority, ticker *clock.Ticker, timeout time.Duration) *ResyncService {
	return &ResyncService{
		machine:   machine,
		authority: authority,
		ticker:    ticker,
		timeout:   timeout,
		refocus:   make(chan struct{}, 1),
	}
}

// Refocus requests an immediate pull, as when the view becomes visible again
func (s *ResyncService) Refocus() {
	select {
	case s.refocus <- struct{}{}:
	default:
	}
}

// Pull fetches the authoritative snapshot once and reconciles the machine with it.
// It reports whether the machine changed.
func (s *ResyncService) Pull(ctx context.Context) (bool, error) {
	seq := s.issued.Add(1)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	snap, err := s.authority.FetchSnapshot(ctx, s.machine.SessionID())
	if err != nil {
		if errors.Is(err, biddingerrors.ErrSessionNotFound) {
			// nothing to converge with yet
			return false, nil
		}
		return false, fmt.Errorf("resync: fetch snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		utils.Debug("resync: discarded out-of-order snapshot", map[string]any{"seq": seq, "applied": s.applied, "version": snap.Version})
		return false, nil
	}
	s.applied = seq
	return s.machine.Reconcile(snap), nil
}

// Run polls until ctx is cancelled. Periodic pulls run on the ticker goroutine;
// refocus and conflict pulls are issued without waiting for one in progress.
func (s *ResyncService) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.ticker.Run(gctx, func(ctx context.Context) {
			s.pullAndLog(ctx, "poll")
		})
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-s.refocus:
				s.pullAsync(gctx, "refocus")
			case <-s.machine.Conflicts():
				s.pullAsync(gctx, "conflict")
			}
		}
	})

	err := g.Wait()
	s.inflight.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *ResyncService) pullAsync(ctx context.Context, trigger string) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.pullAndLog(ctx, trigger)
	}()
}

func (s *ResyncService) pullAndLog(ctx context.Context, trigger string) {
	changed, err := s.Pull(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		utils.Warn("resync: pull failed", map[string]any{"trigger": trigger, "error": err.Error()})
		return
	}
	if changed {
		utils.Debug("resync: state updated", map[string]any{"trigger": trigger})
	}
}
