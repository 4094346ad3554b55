package engine

import (
	"sort"
	"strings"

	"github.com/matchday/tournament-tracker/models"
)

// UngroupedKey is the sentinel bucket for participants without a group tag.
// Callers listing "real" groups must exclude it.
const UngroupedKey = "_UNG"

// GroupTeams partitions participants by group tag, normalized to an
// upper-cased trimmed code.
func GroupTeams(teams map[string]models.Team) map[string]map[string]models.Team {
	byGroup := make(map[string]map[string]models.Team)
	for id, tm := range teams {
		g := strings.ToUpper(strings.TrimSpace(tm.Group))
		if g == "" {
			g = UngroupedKey
		}
		if byGroup[g] == nil {
			byGroup[g] = make(map[string]models.Team)
		}
		byGroup[g][id] = tm
	}
	return byGroup
}

// GroupKeys lists the real group tags in sorted order.
func GroupKeys(byGroup map[string]map[string]models.Team) []string {
	keys := make([]string, 0, len(byGroup))
	for g := range byGroup {
		if g == UngroupedKey {
			continue
		}
		keys = append(keys, g)
	}
	sort.Strings(keys)
	return keys
}
