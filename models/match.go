package models

// Stage is the phase a match belongs to.
type Stage string

const (
	StageLeague    Stage = "league"
	StageGroup     Stage = "group"
	StageKnockout  Stage = "knockout"
	StageAmericano Stage = "americano"
)

// PlayerLine is one player's contribution to a match result.
type PlayerLine struct {
	Name    string `json:"name"`
	Goals   int    `json:"goals"`
	Assists int    `json:"assists"`
	Saves   int    `json:"saves"`
}

// ScoreLine is a recorded result. A nil *ScoreLine on a match means unplayed.
type ScoreLine struct {
	A int `json:"a"`
	B int `json:"b"`

	// Per-player breakdowns, optional.
	APlayers []PlayerLine `json:"aPlayers,omitempty"`
	BPlayers []PlayerLine `json:"bPlayers,omitempty"`

	// Legacy scorer name lists kept for older stats readers: one entry per goal.
	AScorers []string `json:"aScorers,omitempty"`
	BScorers []string `json:"bScorers,omitempty"`
}

// Match is one fixture, stored under tournaments/{code}/matches/{id}.
// Side identifiers are immutable once created; only the result and
// timestamps mutate.
type Match struct {
	TeamA   string `json:"teamA,omitempty"`
	TeamB   string `json:"teamB,omitempty"`
	TeamAID string `json:"teamAId,omitempty"`
	TeamBID string `json:"teamBId,omitempty"`

	// Americano doubles sides: two player identifiers each.
	APlayers []string `json:"aPlayers,omitempty"`
	BPlayers []string `json:"bPlayers,omitempty"`

	Stage       Stage  `json:"stage"`
	Group       string `json:"group,omitempty"`
	Round       string `json:"round,omitempty"`
	RoundNumber int    `json:"roundNumber,omitempty"`
	Encounter   int    `json:"encounter,omitempty"`

	// Bye fixtures carry a single side (knockout) or a single resting
	// player (Americano, via PlayerID/PlayerName).
	Bye        bool   `json:"bye,omitempty"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`

	PointsToWin int `json:"pointsToWin,omitempty"`

	Scores    *ScoreLine `json:"scores,omitempty"`
	CreatedAt int64      `json:"createdAt"`
	UpdatedAt int64      `json:"updatedAt,omitempty"`
}

// Played reports whether the match has a complete result.
func (m Match) Played() bool {
	return m.Scores != nil
}

// Resolved reports whether the match no longer blocks the next knockout
// round: it has a result or is a bye.
func (m Match) Resolved() bool {
	return m.Bye || m.Played()
}

// WinnerID returns the winning side's identifier, or "" for draws, byes
// without an opponent, and unplayed matches.
func (m Match) WinnerID() string {
	if m.Bye {
		return m.TeamAID
	}
	if m.Scores == nil {
		return ""
	}
	switch {
	case m.Scores.A > m.Scores.B:
		return m.TeamAID
	case m.Scores.B > m.Scores.A:
		return m.TeamBID
	default:
		return ""
	}
}

// LoserID returns the losing side's identifier, or "" when there is none.
func (m Match) LoserID() string {
	if m.Bye || m.Scores == nil {
		return ""
	}
	switch {
	case m.Scores.A > m.Scores.B:
		return m.TeamBID
	case m.Scores.B > m.Scores.A:
		return m.TeamAID
	default:
		return ""
	}
}
