package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/matchday/tournament-tracker/models"
)

var (
	// ErrBracketIncompatible means the advancing participant count cannot
	// seed a single-elimination bracket.
	ErrBracketIncompatible = errors.New("advanced count not bracket-compatible")
	// ErrRoundUnresolved means the current knockout round still has matches
	// without a decisive result.
	ErrRoundUnresolved = errors.New("current knockout round is not fully resolved")
	// ErrBracketComplete means a single participant remains.
	ErrBracketComplete = errors.New("knockout bracket is complete")
)

// bracketSizes are the advancing counts a group stage may feed a bracket.
var bracketSizes = map[int]bool{2: true, 4: true, 8: true, 16: true, 32: true}

// KnockoutGenerator builds single-elimination rounds. Direct round-1 seeding
// is a uniform shuffle; there is no deterministic seeding rule for a flat
// roster.
type KnockoutGenerator struct {
	rnd *rand.Rand
}

func NewKnockoutGenerator(rnd *rand.Rand) *KnockoutGenerator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &KnockoutGenerator{rnd: rnd}
}

// RoundLabel names a knockout round by its participant count.
func RoundLabel(n int) string {
	switch n {
	case 2:
		return "Final"
	case 4:
		return "Semi Final"
	case 8:
		return "Quarter Final"
	case 16:
		return "Round of 16"
	case 32:
		return "Round of 32"
	default:
		return fmt.Sprintf("Round of %d", n)
	}
}

// GenerateFirstRound shuffles the roster and pairs neighbours. An odd
// participant out is recorded as a bye and advances automatically.
func (g *KnockoutGenerator) GenerateFirstRound(entrants []Entrant, now int64) ([]models.Match, error) {
	if len(entrants) < 2 {
		return nil, fmt.Errorf("knockout needs at least 2 participants, got %d", len(entrants))
	}
	shuffled := append([]Entrant(nil), entrants...)
	g.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	label := RoundLabel(len(shuffled))
	matches := make([]models.Match, 0, (len(shuffled)+1)/2)
	for i := 0; i < len(shuffled); i += 2 {
		if i+1 >= len(shuffled) {
			matches = append(matches, models.Match{
				TeamA:       shuffled[i].Name,
				TeamAID:     shuffled[i].ID,
				Bye:         true,
				Stage:       models.StageKnockout,
				Round:       label,
				RoundNumber: 1,
				CreatedAt:   now,
			})
			continue
		}
		a, b := shuffled[i], shuffled[i+1]
		matches = append(matches, models.Match{
			TeamA:       a.Name,
			TeamB:       b.Name,
			TeamAID:     a.ID,
			TeamBID:     b.ID,
			Stage:       models.StageKnockout,
			Round:       label,
			RoundNumber: 1,
			CreatedAt:   now,
		})
	}
	return matches, nil
}

// SeedFromGroups ranks group-stage finishers in cross-group snake order:
// every group's first place, then every group's second place, and so on,
// with groups visited alphabetically. The top advancePerGroup × groupCount
// entries advance; that count must seed a clean bracket or
// ErrBracketIncompatible is returned.
func SeedFromGroups(standingsByGroup map[string][]models.StandingsRow, advancePerGroup int) ([]Entrant, error) {
	if advancePerGroup < 1 {
		advancePerGroup = 1
	}
	groupOrder := make([]string, 0, len(standingsByGroup))
	maxPos := 0
	for g, rows := range standingsByGroup {
		groupOrder = append(groupOrder, g)
		if len(rows) > maxPos {
			maxPos = len(rows)
		}
	}
	sort.Strings(groupOrder)

	var seeds []Entrant
	for pos := 0; pos < maxPos; pos++ {
		for _, g := range groupOrder {
			rows := standingsByGroup[g]
			if pos < len(rows) {
				seeds = append(seeds, Entrant{ID: rows[pos].TeamID, Name: rows[pos].Name, Group: g})
			}
		}
	}

	want := advancePerGroup * len(groupOrder)
	advanced := make([]Entrant, 0, want)
	for idx, seed := range seeds {
		if idx/len(groupOrder) < advancePerGroup && len(advanced) < want {
			advanced = append(advanced, seed)
		}
	}
	if !bracketSizes[len(advanced)] {
		return nil, fmt.Errorf("%w: %d", ErrBracketIncompatible, len(advanced))
	}
	return advanced, nil
}

// PairSeeds builds a knockout round from an ordered seed list, pairing seed
// i against seed N−1−i.
func PairSeeds(seeds []Entrant, roundNumber int, now int64) []models.Match {
	n := len(seeds)
	label := RoundLabel(n)
	matches := make([]models.Match, 0, n/2)
	for i := 0; i < n/2; i++ {
		a, b := seeds[i], seeds[n-1-i]
		matches = append(matches, models.Match{
			TeamA:       a.Name,
			TeamB:       b.Name,
			TeamAID:     a.ID,
			TeamBID:     b.ID,
			Stage:       models.StageKnockout,
			Round:       label,
			RoundNumber: roundNumber,
			CreatedAt:   now,
		})
	}
	return matches
}

// NextKnockoutRound derives the following round from the latest knockout
// round once every one of its matches is resolved. Byes advance
// automatically; drawn matches leave the round unresolved.
func NextKnockoutRound(matches map[string]models.Match, now int64) ([]models.Match, error) {
	latest := 0
	for _, m := range matches {
		if m.Stage == models.StageKnockout && m.RoundNumber > latest {
			latest = m.RoundNumber
		}
	}
	if latest == 0 {
		return nil, ErrRoundUnresolved
	}

	type ordered struct {
		id string
		m  models.Match
	}
	var round []ordered
	for id, m := range matches {
		if m.Stage == models.StageKnockout && m.RoundNumber == latest {
			round = append(round, ordered{id, m})
		}
	}
	sort.Slice(round, func(i, j int) bool {
		if round[i].m.CreatedAt != round[j].m.CreatedAt {
			return round[i].m.CreatedAt < round[j].m.CreatedAt
		}
		return round[i].id < round[j].id
	})

	winners := make([]Entrant, 0, len(round))
	for _, e := range round {
		if !e.m.Resolved() {
			return nil, ErrRoundUnresolved
		}
		winnerID := e.m.WinnerID()
		if winnerID == "" {
			return nil, ErrRoundUnresolved
		}
		name := e.m.TeamA
		if winnerID == e.m.TeamBID {
			name = e.m.TeamB
		}
		winners = append(winners, Entrant{ID: winnerID, Name: name})
	}
	if len(winners) < 2 {
		return nil, ErrBracketComplete
	}

	label := RoundLabel(len(winners))
	next := make([]models.Match, 0, (len(winners)+1)/2)
	for i := 0; i < len(winners); i += 2 {
		if i+1 >= len(winners) {
			next = append(next, models.Match{
				TeamA:       winners[i].Name,
				TeamAID:     winners[i].ID,
				Bye:         true,
				Stage:       models.StageKnockout,
				Round:       label,
				RoundNumber: latest + 1,
				CreatedAt:   now,
			})
			continue
		}
		next = append(next, models.Match{
			TeamA:       winners[i].Name,
			TeamB:       winners[i+1].Name,
			TeamAID:     winners[i].ID,
			TeamBID:     winners[i+1].ID,
			Stage:       models.StageKnockout,
			Round:       label,
			RoundNumber: latest + 1,
			CreatedAt:   now,
		})
	}
	return next, nil
}
