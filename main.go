package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auctioner/internal/auction"
	authority "auctioner/internal/authorityService"
	"auctioner/internal/config"
	"auctioner/internal/models"
	"auctioner/internal/repository"
	"auctioner/internal/server"
	"auctioner/internal/server/ws"
	"auctioner/utils"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	utils.SetLevel(cfg.Log.Level)

	repo := repository.NewMemoryRepo()

	prepopulateRoster(repo, cfg.Auction.BudgetCeiling)

	hub := ws.NewHub()
	auctionSvc := authority.NewAuctionService(repo, authority.Options{
		Rules:         auction.Rules{Step: cfg.Auction.BidStep},
		BidsPerMinute: cfg.Server.BidsPerMinute,
		Overs:         cfg.Match.Overs,
		Publisher:     hub,
	})

	router := server.SetupRouter(auctionSvc, hub)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	utils.Info("Starting auction server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
	utils.Info("auction server stopped", nil)
}

// configPath returns the TOML config location from env or defaults to "auctioner.toml"
func configPath() string {
	if p := os.Getenv("AUCTIONER_CONFIG"); p != "" {
		return p
	}
	return "auctioner.toml"
}

// prepopulateRoster adds sample players and teams to the in-memory repo
func prepopulateRoster(repo *repository.MemoryRepo, ceiling int64) {
	players := []models.Player{
		{PlayerID: "p1", Name: "Arjun Mehta", Role: models.RoleBatsman, BasePrice: 50000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 42.5, StrikeRate: 138, MatchesPlayed: 61}},
		{PlayerID: "p2", Name: "Rohan Das", Role: models.RoleBowler, BasePrice: 40000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 11.2, StrikeRate: 95, WicketsTaken: 74, EconomyRate: 6.9, MatchesPlayed: 58}},
		{PlayerID: "p3", Name: "Kabir Singh", Role: models.RoleAllRounder, BasePrice: 60000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 29.8, StrikeRate: 147, WicketsTaken: 38, EconomyRate: 7.8, MatchesPlayed: 49}},
		{PlayerID: "p4", Name: "Dev Patel", Role: models.RoleWicketKeeper, BasePrice: 30000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 33.1, StrikeRate: 129, MatchesPlayed: 40}},
		{PlayerID: "p5", Name: "Imran Qureshi", Role: models.RoleBowler, BasePrice: 35000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 8.4, StrikeRate: 88, WicketsTaken: 61, EconomyRate: 7.2, MatchesPlayed: 52}},
		{PlayerID: "p6", Name: "Vikram Rao", Role: models.RoleBatsman, BasePrice: 45000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 37.9, StrikeRate: 151, MatchesPlayed: 44}},
		{PlayerID: "p7", Name: "Sameer Khan", Role: models.RoleAllRounder, BasePrice: 55000, Approved: true,
			Stats: models.PlayerStats{BattingAverage: 24.3, StrikeRate: 142, WicketsTaken: 45, EconomyRate: 8.1, MatchesPlayed: 57}},
		{PlayerID: "p8", Name: "Nikhil Joshi", Role: models.RoleBatsman, BasePrice: 20000,
			Stats: models.PlayerStats{BattingAverage: 21.0, StrikeRate: 118, MatchesPlayed: 12}},
	}
	for _, p := range players {
		repo.AddPlayer(p)
	}

	teams := []models.Team{
		{TeamID: "team-a", Name: "Coastal Chargers", BudgetCeiling: ceiling},
		{TeamID: "team-b", Name: "Highland Hawks", BudgetCeiling: ceiling},
		{TeamID: "team-c", Name: "Desert Strikers", BudgetCeiling: ceiling},
	}
	for _, t := range teams {
		repo.AddTeam(t)
	}
}
