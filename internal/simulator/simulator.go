// Package simulator plays a limited-overs cricket match between two rosters
// ball by ball. A match is a pure function of the rosters and the random
// source: the same seed always produces the same scorecard and commentary.
package simulator

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"auctioner/internal/biddingerrors"
	"auctioner/internal/models"
)

// DefaultOvers is the length of each innings when none is configured
const DefaultOvers = 5

const (
	ballsPerOver = 6
	maxWickets   = 10
	minWeight    = 0.5
)

// ErrInvalidOvers is returned for a match with no overs to bowl
var ErrInvalidOvers = errors.New("overs must be positive")

// Source is the uniform random stream a match draws from
type Source interface {
	Float64() float64 // in [0, 1)
}

// NewSource returns a deterministic source for seed
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Roster is one side of a match, in batting order
type Roster struct {
	TeamID  string          `json:"team_id"`
	Name    string          `json:"name"`
	Players []models.Player `json:"players"`
}

// Innings is one side's score line
type Innings struct {
	TeamID  string `json:"team_id"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Balls   int    `json:"balls"`
	Overs   string `json:"overs"`
}

// BattingFigures are a batter's totals across the match
type BattingFigures struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Runs     int    `json:"runs"`
	Balls    int    `json:"balls"`
}

// BowlingFigures are a bowler's totals across the match
type BowlingFigures struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Wickets  int    `json:"wickets"`
	Runs     int    `json:"runs"`
	Balls    int    `json:"balls"`
}

// MatchResult is the full outcome of a simulated match
type MatchResult struct {
	FirstInnings  Innings        `json:"first_innings"`
	SecondInnings Innings        `json:"second_innings"`
	WinnerID      string         `json:"winner_id"`
	TopScorer     BattingFigures `json:"top_scorer"`
	TopBowler     BowlingFigures `json:"top_bowler"`
	Commentary    []string       `json:"commentary"`
}

// Simulator plays matches of a fixed length
type Simulator struct {
	Overs int
}

// Simulate plays a DefaultOvers match between a and b
func Simulate(a, b Roster, rng Source) (MatchResult, error) {
	return Simulator{Overs: DefaultOvers}.Simulate(a, b, rng)
}

// Simulate plays a match between a and b drawing from rng
func (s Simulator) Simulate(a, b Roster, rng Source) (MatchResult, error) {
	if s.Overs <= 0 {
		return MatchResult{}, fmt.Errorf("simulator: %w - got %d", ErrInvalidOvers, s.Overs)
	}
	for _, r := range []Roster{a, b} {
		if len(r.Players) == 0 {
			return MatchResult{}, fmt.Errorf("simulator: %w - %s", biddingerrors.ErrEmptyRoster, r.TeamID)
		}
	}

	first, second := a, b
	if rng.Float64() >= 0.5 {
		first, second = b, a
	}

	m := &match{
		rng:     rng,
		balls:   s.Overs * ballsPerOver,
		batting: make(map[string]*BattingFigures),
		bowling: make(map[string]*BowlingFigures),
	}

	firstInnings := m.playInnings(first, second, -1)
	m.commentary = append(m.commentary, "--- End of Innings ---")
	secondInnings := m.playInnings(second, first, firstInnings.Runs)

	winner := first.TeamID
	if secondInnings.Runs > firstInnings.Runs {
		winner = second.TeamID
	}

	return MatchResult{
		FirstInnings:  firstInnings,
		SecondInnings: secondInnings,
		WinnerID:      winner,
		TopScorer:     m.topScorer(),
		TopBowler:     m.topBowler(),
		Commentary:    m.commentary,
	}, nil
}

type match struct {
	rng        Source
	balls      int
	batting    map[string]*BattingFigures
	bowling    map[string]*BowlingFigures
	commentary []string
}

// playInnings bowls until the overs run out, the side is all out, or
// chasing reaches beyond chase runs. A negative chase means no target.
func (m *match) playInnings(bat, bowl Roster, chase int) Innings {
	inn := Innings{TeamID: bat.TeamID}
	rotation := BowlingRotation(bowl.Players)
	wicketCap := min(maxWickets, len(bat.Players))

	for inn.Balls < m.balls && inn.Wickets < wicketCap {
		if chase >= 0 && inn.Runs > chase {
			break
		}

		batter := bat.Players[inn.Wickets]
		bowler := rotation[(inn.Balls/ballsPerOver)%len(rotation)]
		bf := m.battingFigures(batter)
		wf := m.bowlingFigures(bowler)
		ball := fmt.Sprintf("%d.%d", inn.Balls/ballsPerOver, inn.Balls%ballsPerOver+1)

		out, runs := m.deliver(batter.Stats, bowler.Stats)
		if out {
			inn.Wickets++
			wf.Wickets++
			m.commentary = append(m.commentary, fmt.Sprintf("%s: WICKET! %s is out, bowled by %s.", ball, batter.Name, bowler.Name))
		} else {
			inn.Runs += runs
			bf.Runs += runs
			wf.Runs += runs
			m.commentary = append(m.commentary, fmt.Sprintf("%s: %s scores %d run(s) off %s.", ball, batter.Name, runs, bowler.Name))
		}
		inn.Balls++
		bf.Balls++
		wf.Balls++
	}

	inn.Overs = formatOvers(inn.Balls)
	return inn
}

// deliver samples one ball: a wicket, or the runs scored off it
func (m *match) deliver(bat, bowl models.PlayerStats) (bool, int) {
	w := outcomeWeights(bat, bowl)
	total := w.out + w.dot + w.runs + w.four + w.six
	r := m.rng.Float64() * total

	switch {
	case r < w.out:
		return true, 0
	case r < w.out+w.dot:
		return false, 0
	case r < w.out+w.dot+w.runs:
		// second draw splits the bucket 60/30/10 into 1, 2 and 3 runs
		switch s := m.rng.Float64(); {
		case s < 0.6:
			return false, 1
		case s < 0.9:
			return false, 2
		default:
			return false, 3
		}
	case r < w.out+w.dot+w.runs+w.four:
		return false, 4
	default:
		return false, 6
	}
}

type weights struct {
	out, dot, runs, four, six float64
}

// outcomeWeights favours scoring for strong batters and expensive bowlers,
// and wickets and dots for weak batters and tight, wicket-taking bowlers.
func outcomeWeights(bat, bowl models.PlayerStats) weights {
	leak := bowl.EconomyRate - 6 // runs per over above a par economy
	w := weights{
		out:  5 - bat.BattingAverage/15 + float64(bowl.WicketsTaken)/50,
		dot:  40 - bat.StrikeRate/5 - leak*2,
		runs: 30 + bat.StrikeRate/10 + leak,
		four: 10 + bat.StrikeRate/12 + leak,
		six:  5 + bat.StrikeRate/20 + leak/2,
	}
	w.out = max(w.out, minWeight)
	w.dot = max(w.dot, minWeight)
	w.runs = max(w.runs, minWeight)
	w.four = max(w.four, minWeight)
	w.six = max(w.six, minWeight)
	return w
}

// BowlingRotation returns the players who bowl, in roster order: bowlers and
// all-rounders, or the whole roster when it has neither.
func BowlingRotation(players []models.Player) []models.Player {
	rotation := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.Role.CanBowl() {
			rotation = append(rotation, p)
		}
	}
	if len(rotation) == 0 {
		return append(rotation, players...)
	}
	return rotation
}

func (m *match) battingFigures(p models.Player) *BattingFigures {
	f, ok := m.batting[p.PlayerID]
	if !ok {
		f = &BattingFigures{PlayerID: p.PlayerID, Name: p.Name}
		m.batting[p.PlayerID] = f
	}
	return f
}

func (m *match) bowlingFigures(p models.Player) *BowlingFigures {
	f, ok := m.bowling[p.PlayerID]
	if !ok {
		f = &BowlingFigures{PlayerID: p.PlayerID, Name: p.Name}
		m.bowling[p.PlayerID] = f
	}
	return f
}

// topScorer is the batter with most runs, then fewest balls, then lowest id
func (m *match) topScorer() BattingFigures {
	all := make([]BattingFigures, 0, len(m.batting))
	for _, f := range m.batting {
		all = append(all, *f)
	}
	slices.SortFunc(all, compareBatting)
	if len(all) == 0 {
		return BattingFigures{}
	}
	return all[0]
}

// topBowler is the bowler with most wickets, then fewest runs, then lowest id
func (m *match) topBowler() BowlingFigures {
	all := make([]BowlingFigures, 0, len(m.bowling))
	for _, f := range m.bowling {
		all = append(all, *f)
	}
	slices.SortFunc(all, compareBowling)
	if len(all) == 0 {
		return BowlingFigures{}
	}
	return all[0]
}

func compareBatting(a, b BattingFigures) int {
	if c := cmp.Compare(b.Runs, a.Runs); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Balls, b.Balls); c != 0 {
		return c
	}
	return cmp.Compare(a.PlayerID, b.PlayerID)
}

func compareBowling(a, b BowlingFigures) int {
	if c := cmp.Compare(b.Wickets, a.Wickets); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Runs, b.Runs); c != 0 {
		return c
	}
	return cmp.Compare(a.PlayerID, b.PlayerID)
}

func formatOvers(balls int) string {
	return fmt.Sprintf("%d.%d", balls/ballsPerOver, balls%ballsPerOver)
}
