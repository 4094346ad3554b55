package models

// StandingsRow is a derived ranking entry. Recomputed on every read from the
// current match set, never persisted.
type StandingsRow struct {
	TeamID       string `json:"teamId"`
	Name         string `json:"name"`
	Played       int    `json:"gp"`
	Wins         int    `json:"w"`
	Draws        int    `json:"d"`
	Losses       int    `json:"l"`
	GoalsFor     int    `json:"gf"`
	GoalsAgainst int    `json:"ga"`
	Points       int    `json:"pts"`
}

// GoalDifference is the primary tie-break after points.
func (r StandingsRow) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// AmericanoRow is the per-player cumulative points entry for the Americano
// format, where both players of a side earn the side's score.
type AmericanoRow struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Points   int    `json:"pts"`
	Played   int    `json:"played"`
}

// EliminationSummary splits participants by knockout survival.
type EliminationSummary struct {
	Remaining  []string `json:"remaining"`
	Eliminated []string `json:"eliminated"`
}

// PlayerStats is a per-player aggregate over a tournament's recorded results.
type PlayerStats struct {
	Name    string `json:"name"`
	Goals   int    `json:"goals"`
	Assists int    `json:"assists"`
	Saves   int    `json:"saves"`
}
