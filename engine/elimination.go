package engine

import (
	"sort"

	"github.com/matchday/tournament-tracker/models"
)

// BuildEliminationSummary splits the roster into teams still alive and teams
// knocked out. Every team lands in exactly one list: a team is eliminated
// once it loses any completed knockout match, all others count as remaining.
// Byes and drawn or unplayed matches eliminate nobody. Before the knockout
// stage exists both lists are empty.
func BuildEliminationSummary(matches map[string]models.Match, teams map[string]models.Team) models.EliminationSummary {
	eliminated := map[string]bool{}
	hasKnockout := false
	for _, m := range matches {
		if m.Stage != models.StageKnockout {
			continue
		}
		hasKnockout = true
		if loser := m.LoserID(); loser != "" {
			eliminated[loser] = true
		}
	}

	summary := models.EliminationSummary{}
	if !hasKnockout {
		return summary
	}
	for id, tm := range teams {
		name := tm.Name
		if name == "" {
			name = id
		}
		if eliminated[id] {
			summary.Eliminated = append(summary.Eliminated, name)
		} else {
			summary.Remaining = append(summary.Remaining, name)
		}
	}
	sort.Strings(summary.Remaining)
	sort.Strings(summary.Eliminated)
	return summary
}
