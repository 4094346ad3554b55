package models

// Format is the scheduling format of a tournament.
type Format string

const (
	FormatLeague         Format = "league"
	FormatGroupsKnockout Format = "groups_knockout"
	FormatKnockout       Format = "knockout"
	FormatAmericano      Format = "americano"
)

const (
	// MaxEncounters caps how many repetition cycles a schedule may have.
	MaxEncounters = 4
	// DefaultPointsToWin is the Americano per-game target when unset.
	DefaultPointsToWin = 16
)

// TournamentConfig is set at creation by the admin and mutable only by the admin.
type TournamentConfig struct {
	Sport           string `json:"sport"`
	Format          Format `json:"format"`
	Name            string `json:"name"`
	Encounters      int    `json:"encounters,omitempty"`
	AdvancePerGroup *int   `json:"advancePerGroup,omitempty"`
	PointsToWin     *int   `json:"pointsToWin,omitempty"`
	IsPublic        bool   `json:"isPublic"`
	Rules           string `json:"rules,omitempty"`
	CreatedAt       int64  `json:"createdAt"`
}

// EncounterCount clamps the configured encounters into [1, MaxEncounters].
func (c TournamentConfig) EncounterCount() int {
	if c.Encounters < 1 {
		return 1
	}
	if c.Encounters > MaxEncounters {
		return MaxEncounters
	}
	return c.Encounters
}

// PointsTarget returns the Americano points-to-win target, defaulted.
func (c TournamentConfig) PointsTarget() int {
	if c.PointsToWin != nil && *c.PointsToWin > 0 {
		return *c.PointsToWin
	}
	return DefaultPointsToWin
}

// Tournament is the document stored under tournaments/{code}.
type Tournament struct {
	Config  TournamentConfig `json:"config"`
	Admin   string           `json:"admin"`
	Teams   map[string]Team  `json:"teams,omitempty"`
	Matches map[string]Match `json:"matches,omitempty"`
}

// SchedulableTeams returns the approved, non-rejected participants.
func (t *Tournament) SchedulableTeams() map[string]Team {
	out := make(map[string]Team, len(t.Teams))
	for id, tm := range t.Teams {
		if tm.Schedulable() {
			out[id] = tm
		}
	}
	return out
}

// HasStage reports whether any match of the given stage exists.
func (t *Tournament) HasStage(stage Stage) bool {
	for _, m := range t.Matches {
		if m.Stage == stage {
			return true
		}
	}
	return false
}

// MatchesByStage filters the match collection to one stage.
func (t *Tournament) MatchesByStage(stage Stage) map[string]Match {
	out := make(map[string]Match)
	for id, m := range t.Matches {
		if m.Stage == stage {
			out[id] = m
		}
	}
	return out
}
