package engine

import (
	"sort"
	"strings"

	"github.com/matchday/tournament-tracker/models"
)

// Entrant is a schedulable roster entry: a team, or a single player for the
// Americano format.
type Entrant struct {
	ID    string
	Name  string
	Group string
}

// Roster orders the schedulable teams the way they joined the tournament,
// which is also the order group labels are dealt in.
func Roster(teams map[string]models.Team) []Entrant {
	type entry struct {
		id string
		tm models.Team
	}
	entries := make([]entry, 0, len(teams))
	for id, tm := range teams {
		if !tm.Schedulable() {
			continue
		}
		entries = append(entries, entry{id, tm})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].tm.CreatedAt != entries[j].tm.CreatedAt {
			return entries[i].tm.CreatedAt < entries[j].tm.CreatedAt
		}
		if entries[i].tm.Name != entries[j].tm.Name {
			return entries[i].tm.Name < entries[j].tm.Name
		}
		return entries[i].id < entries[j].id
	})
	out := make([]Entrant, len(entries))
	for i, e := range entries {
		out[i] = Entrant{ID: e.id, Name: e.tm.Name, Group: e.tm.Group}
	}
	return out
}

// PairKey builds the canonical key of an unordered participant pair.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func sortByName(entrants []Entrant) []Entrant {
	out := append([]Entrant(nil), entrants...)
	sort.Slice(out, func(i, j int) bool {
		if c := strings.Compare(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}
