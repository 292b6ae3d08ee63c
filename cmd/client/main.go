// Command client runs the auction engine against a remote authority: it keeps
// the countdown, converges with the authority by polling and push events, and
// reads operator commands from stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"auctioner/internal/auction"
	"auctioner/internal/clock"
	"auctioner/internal/config"
	"auctioner/internal/models"
	"auctioner/internal/remote"
	"auctioner/utils"
)

func main() {
	path := os.Getenv("AUCTIONER_CONFIG")
	if path == "" {
		path = "auctioner.toml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	utils.SetLevel(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		utils.Fatal("client stopped", map[string]any{"error": err.Error()})
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	caller := cfg.Caller()
	client := remote.NewClient(cfg.Client.AuthorityURL, caller)
	rules := auction.Rules{Step: cfg.Auction.BidStep}

	machine := auction.NewMachine(client, client, auction.Options{
		Caller:         caller,
		Rules:          rules,
		Countdown:      cfg.Auction.Countdown.Duration,
		TickStep:       cfg.Auction.TickInterval.Duration,
		RequestTimeout: cfg.Auction.RequestTimeout.Duration,
		SessionID:      cfg.Client.SessionID,
		OnChange:       logState,
	})

	realClock := clockwork.NewRealClock()
	resync := auction.NewResyncService(machine, client,
		clock.NewTicker(realClock, cfg.Auction.PollInterval.Duration),
		cfg.Auction.RequestTimeout.Duration)
	countdown := clock.NewTicker(realClock, cfg.Auction.TickInterval.Duration)
	events := remote.NewEventStream(cfg.Client.EventsURL)

	if err := machine.RefreshRoster(ctx); err != nil {
		return fmt.Errorf("client: initial roster: %w", err)
	}
	if _, err := resync.Pull(ctx); err != nil {
		utils.Warn("client: initial pull failed", map[string]any{"error": err.Error()})
	}

	if cfg.Client.AutoStart && caller.IsAdmin() {
		switch st := machine.State(); st.Status {
		case models.StatusNotStarted, models.StatusPaused:
			if err := machine.Start(ctx); err != nil {
				utils.Warn("client: auto start failed", map[string]any{"error": err.Error()})
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return countdown.Run(gctx, machine.Tick)
	})

	g.Go(func() error {
		return resync.Run(gctx)
	})

	g.Go(func() error {
		return events.Run(gctx, func(e models.Event) {
			if e.Type == models.EventDataChanged || e.Type == models.EventLotChanged {
				if err := machine.RefreshRoster(gctx); err != nil {
					utils.Warn("client: roster refresh failed", map[string]any{"error": err.Error()})
				}
			}
			resync.Refocus()
		})
	})

	g.Go(func() error {
		return readCommands(gctx, machine, rules)
	})

	err := g.Wait()
	machine.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readCommands drives the machine from stdin until EOF or cancellation
func readCommands(ctx context.Context, machine *auction.Machine, rules auction.Rules) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				// stdin closed; keep following the auction
				<-ctx.Done()
				return ctx.Err()
			}
			if err := execute(ctx, machine, rules, strings.Fields(line)); err != nil {
				utils.Warn("client: command failed", map[string]any{"command": line, "error": err.Error()})
			}
		}
	}
}

func execute(ctx context.Context, machine *auction.Machine, rules auction.Rules, args []string) error {
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "start":
		return machine.Start(ctx)
	case "pause":
		return machine.Pause(ctx)
	case "sold":
		return machine.MarkSold(ctx)
	case "unsold":
		return machine.MarkUnsold(ctx)
	case "next":
		return machine.Advance(ctx)
	case "state":
		logState(machine.State())
		return nil
	case "bid":
		if len(args) < 2 {
			return errors.New("usage: bid <team_id> [amount]")
		}
		amount, err := bidAmount(machine.State(), rules, args[2:])
		if err != nil {
			return err
		}
		_, err = machine.PlaceBid(ctx, args[1], amount)
		return err
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// bidAmount parses an explicit amount or suggests the next quantized bid
func bidAmount(st auction.State, rules auction.Rules, args []string) (int64, error) {
	if len(args) > 0 {
		amount, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", args[0], err)
		}
		return amount, nil
	}
	if st.Lot == nil {
		return 0, errors.New("no lot open")
	}
	return rules.NextBid(st.Lot), nil
}

func logState(st auction.State) {
	fields := map[string]any{
		"session_id": st.SessionID,
		"status":     st.Status,
		"version":    st.Version,
		"remaining":  st.Remaining.String(),
		"queue":      len(st.Queue),
	}
	if st.Lot != nil {
		fields["player_id"] = st.Lot.Player.PlayerID
		fields["floor"] = st.Lot.Floor()
		if st.Lot.CurrentBid != nil {
			fields["leader"] = st.Lot.CurrentBid.TeamID
		}
	}
	utils.Info("auction state", fields)
}
