package engine

import (
	"fmt"

	"github.com/matchday/tournament-tracker/models"
)

// RoundRobinGenerator produces every unordered pairing of the entrants once
// per encounter, used for the league format and for group stages.
type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() *RoundRobinGenerator {
	return &RoundRobinGenerator{}
}

type RoundRobinParams struct {
	Entrants   []Entrant
	Encounters int
	Stage      models.Stage
	Group      string
	// Existing counts already-scheduled matches per unordered pair key, so a
	// non-destructive run only schedules the shortfall for each pair.
	Existing map[string]int
	Now      int64
}

// Generate returns encounters × C(n,2) matches minus whatever Existing
// already covers. For encounter index k (0-based), odd k swaps home and away
// so repeated encounters alternate sides.
func (g *RoundRobinGenerator) Generate(p RoundRobinParams) ([]models.Match, error) {
	if len(p.Entrants) < 2 {
		return nil, fmt.Errorf("round robin needs at least 2 participants, got %d", len(p.Entrants))
	}
	encounters := p.Encounters
	if encounters < 1 {
		encounters = 1
	}

	var matches []models.Match
	for i := 0; i < len(p.Entrants); i++ {
		for j := i + 1; j < len(p.Entrants); j++ {
			a, b := p.Entrants[i], p.Entrants[j]
			start := p.Existing[PairKey(a.ID, b.ID)]
			for k := start; k < encounters; k++ {
				home, away := a, b
				if k%2 == 1 {
					home, away = b, a
				}
				matches = append(matches, models.Match{
					TeamA:     home.Name,
					TeamB:     away.Name,
					TeamAID:   home.ID,
					TeamBID:   away.ID,
					Stage:     p.Stage,
					Group:     p.Group,
					Encounter: k + 1,
					CreatedAt: p.Now,
				})
			}
		}
	}
	return matches, nil
}

// CountExistingPairs tallies how many matches of a stage already exist per
// unordered pair, feeding RoundRobinParams.Existing for top-up runs.
func CountExistingPairs(matches map[string]models.Match, stage models.Stage, group string) map[string]int {
	counts := make(map[string]int)
	for _, m := range matches {
		if m.Stage != stage || m.Bye {
			continue
		}
		if group != "" && m.Group != group {
			continue
		}
		counts[PairKey(m.TeamAID, m.TeamBID)]++
	}
	return counts
}
