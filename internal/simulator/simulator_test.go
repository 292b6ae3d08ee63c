package simulator

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"auctioner/internal/biddingerrors"
	"auctioner/internal/models"

	"github.com/stretchr/testify/require"
)

// scriptedSource replays vals, repeating the last one once exhausted
type scriptedSource struct {
	vals []float64
	i    int
}

func (s *scriptedSource) Float64() float64 {
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v
}

func constant(v float64) *scriptedSource {
	return &scriptedSource{vals: []float64{v}}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func player(id string, role models.PlayerRole) models.Player {
	return models.Player{PlayerID: id, Name: strings.ToUpper(id), Role: role}
}

func statPlayer(id string, role models.PlayerRole, avg, sr, econ float64, wkts int) models.Player {
	p := player(id, role)
	p.Stats = models.PlayerStats{BattingAverage: avg, StrikeRate: sr, EconomyRate: econ, WicketsTaken: wkts}
	return p
}

func realisticRoster(prefix string, n int) Roster {
	roles := []models.PlayerRole{models.RoleBatsman, models.RoleWicketKeeper, models.RoleAllRounder, models.RoleBowler}
	r := Roster{TeamID: "team-" + prefix, Name: "Team " + prefix}
	for i := 0; i < n; i++ {
		role := roles[i%len(roles)]
		r.Players = append(r.Players, statPlayer(fmt.Sprintf("%s%02d", prefix, i), role, 20+float64(i*3), 110+float64(i*4), 6+float64(i%4), i*5))
	}
	return r
}

// with zeroed stats the weights are out=5 dot=52 runs=24 four=4 six=2 (total 87):
// 0.01 is a wicket, 0.3 a dot ball and 0.99 a six
const (
	drawWicket = 0.01
	drawDot    = 0.3
	drawSix    = 0.99
)

func TestSimulate_DeterministicForSeed(t *testing.T) {
	a, b := realisticRoster("a", 11), realisticRoster("b", 11)

	for seed := uint64(1); seed <= 20; seed++ {
		first, err := Simulate(a, b, NewSource(seed))
		require.NoError(t, err)
		second, err := Simulate(a, b, NewSource(seed))
		require.NoError(t, err)
		require.Equal(t, first, second, "seed %d", seed)
	}
}

func TestSimulate_Bounds(t *testing.T) {
	a, b := realisticRoster("a", 11), realisticRoster("b", 7)
	sim := Simulator{Overs: 5}

	for seed := uint64(0); seed < 200; seed++ {
		res, err := sim.Simulate(a, b, NewSource(seed))
		require.NoError(t, err)

		for _, inn := range []Innings{res.FirstInnings, res.SecondInnings} {
			require.LessOrEqual(t, inn.Balls, 30)
			require.LessOrEqual(t, inn.Wickets, 10)
			if inn.TeamID == b.TeamID {
				require.LessOrEqual(t, inn.Wickets, len(b.Players))
			}
		}
		if res.SecondInnings.Runs > res.FirstInnings.Runs {
			require.Equal(t, res.SecondInnings.TeamID, res.WinnerID)
			require.LessOrEqual(t, res.SecondInnings.Runs, res.FirstInnings.Runs+6, "chase ran past the winning ball")
		} else {
			require.Equal(t, res.FirstInnings.TeamID, res.WinnerID)
		}

		deliveries := res.FirstInnings.Balls + res.SecondInnings.Balls
		require.Len(t, res.Commentary, deliveries+1)
		require.Equal(t, "--- End of Innings ---", res.Commentary[res.FirstInnings.Balls])
	}
}

func TestSimulate_BowlerChangesEveryOver(t *testing.T) {
	a := Roster{TeamID: "team-a", Players: []models.Player{player("a1", models.RoleBatsman), player("a2", models.RoleBatsman)}}
	b := Roster{TeamID: "team-b", Players: []models.Player{
		player("b1", models.RoleBatsman),
		player("b2", models.RoleBowler),
		player("b3", models.RoleWicketKeeper),
		player("b4", models.RoleAllRounder),
	}}

	res, err := Simulator{Overs: 3}.Simulate(a, b, constant(drawDot))
	require.NoError(t, err)

	require.Equal(t, "team-a", res.FirstInnings.TeamID)
	require.Equal(t, Innings{TeamID: "team-a", Runs: 0, Wickets: 0, Balls: 18, Overs: "3.0"}, res.FirstInnings)
	require.Equal(t, "0.1: A1 scores 0 run(s) off B2.", res.Commentary[0])
	require.Equal(t, "0.6: A1 scores 0 run(s) off B2.", res.Commentary[5])
	require.Equal(t, "1.1: A1 scores 0 run(s) off B4.", res.Commentary[6])
	require.Equal(t, "2.1: A1 scores 0 run(s) off B2.", res.Commentary[12])

	// team-a has no bowlers, so everyone rotates
	require.Equal(t, "0.1: B1 scores 0 run(s) off A1.", res.Commentary[19])
	require.Equal(t, "1.1: B1 scores 0 run(s) off A2.", res.Commentary[25])

	// level scores go to the side batting first
	require.Equal(t, "team-a", res.WinnerID)
}

func TestSimulate_WicketCap(t *testing.T) {
	a := Roster{TeamID: "team-a", Players: []models.Player{
		player("a1", models.RoleBatsman),
		player("a2", models.RoleBowler),
		player("a3", models.RoleBowler),
	}}
	b := realisticRoster("b", 12)
	for i := range b.Players {
		b.Players[i].Stats = models.PlayerStats{}
	}

	res, err := Simulate(a, b, constant(drawWicket))
	require.NoError(t, err)

	require.Equal(t, "team-a", res.FirstInnings.TeamID)
	require.Equal(t, 3, res.FirstInnings.Wickets, "short roster is all out when it runs out of batters")
	require.Equal(t, 3, res.FirstInnings.Balls)
	require.Equal(t, 10, res.SecondInnings.Wickets)
	require.Equal(t, 10, res.SecondInnings.Balls)
	require.Equal(t, "1.4", res.SecondInnings.Overs)

	require.Equal(t, BowlingFigures{PlayerID: "a2", Name: "A2", Wickets: 6, Runs: 0, Balls: 6}, res.TopBowler)
	require.True(t, strings.Contains(res.Commentary[0], "WICKET! A1 is out"))
}

func TestSimulate_ChaseStopsOnceTargetPassed(t *testing.T) {
	a := Roster{TeamID: "team-a", Players: []models.Player{player("a1", models.RoleBatsman), player("a2", models.RoleBowler)}}
	b := Roster{TeamID: "team-b", Players: []models.Player{player("b1", models.RoleBatsman), player("b2", models.RoleBowler)}}

	vals := append([]float64{drawDot}, repeat(drawDot, 30)...)
	vals = append(vals, drawSix)
	res, err := Simulate(a, b, &scriptedSource{vals: vals})
	require.NoError(t, err)

	require.Equal(t, 0, res.FirstInnings.Runs)
	require.Equal(t, Innings{TeamID: "team-b", Runs: 6, Wickets: 0, Balls: 1, Overs: "0.1"}, res.SecondInnings)
	require.Equal(t, "team-b", res.WinnerID)
	require.Equal(t, BattingFigures{PlayerID: "b1", Name: "B1", Runs: 6, Balls: 1}, res.TopScorer)
}

func TestSimulate_LevelScoresGoToFirstInnings(t *testing.T) {
	a := Roster{TeamID: "team-a", Players: []models.Player{player("a1", models.RoleBowler)}}
	b := Roster{TeamID: "team-b", Players: []models.Player{player("b1", models.RoleBowler)}}

	res, err := Simulator{Overs: 2}.Simulate(a, b, constant(drawSix))
	require.NoError(t, err)

	require.Equal(t, "team-b", res.FirstInnings.TeamID, "a high coin flip sends team-b in first")
	require.Equal(t, 72, res.FirstInnings.Runs)
	require.Equal(t, 72, res.SecondInnings.Runs)
	require.Equal(t, "team-b", res.WinnerID)

	// equal runs and balls: lowest id wins the tie-break
	require.Equal(t, "a1", res.TopScorer.PlayerID)
	require.Equal(t, "a1", res.TopBowler.PlayerID)
}

func TestSimulate_InvalidInput(t *testing.T) {
	full := Roster{TeamID: "team-a", Players: []models.Player{player("a1", models.RoleBowler)}}
	empty := Roster{TeamID: "team-b"}

	_, err := Simulate(full, empty, constant(drawDot))
	require.True(t, errors.Is(err, biddingerrors.ErrEmptyRoster))

	_, err = Simulator{Overs: 0}.Simulate(full, full, constant(drawDot))
	require.True(t, errors.Is(err, ErrInvalidOvers))
}

func TestBowlingRotation(t *testing.T) {
	tests := []struct {
		name    string
		players []models.Player
		want    []string
	}{
		{
			name: "bowlers_and_all_rounders",
			players: []models.Player{
				player("p1", models.RoleBatsman),
				player("p2", models.RoleBowler),
				player("p3", models.RoleWicketKeeper),
				player("p4", models.RoleAllRounder),
			},
			want: []string{"p2", "p4"},
		},
		{
			name:    "falls_back_to_everyone",
			players: []models.Player{player("p1", models.RoleBatsman), player("p2", models.RoleWicketKeeper)},
			want:    []string{"p1", "p2"},
		},
		{
			name:    "empty",
			players: nil,
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := []string{}
			for _, p := range BowlingRotation(tc.players) {
				got = append(got, p.PlayerID)
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestOutcomeWeights_StatsShiftTheOdds(t *testing.T) {
	weak := models.PlayerStats{BattingAverage: 10, StrikeRate: 80}
	strong := models.PlayerStats{BattingAverage: 50, StrikeRate: 160}
	tight := models.PlayerStats{EconomyRate: 5, WicketsTaken: 150}
	loose := models.PlayerStats{EconomyRate: 10, WicketsTaken: 10}

	require.Less(t, outcomeWeights(strong, tight).out, outcomeWeights(weak, tight).out)
	require.Greater(t, outcomeWeights(strong, tight).six, outcomeWeights(weak, tight).six)
	require.Greater(t, outcomeWeights(weak, tight).out, outcomeWeights(weak, loose).out)
	require.Less(t, outcomeWeights(weak, tight).four, outcomeWeights(weak, loose).four)

	w := outcomeWeights(models.PlayerStats{BattingAverage: 300}, models.PlayerStats{})
	require.Equal(t, minWeight, w.out, "weights never drop below the floor")
}
