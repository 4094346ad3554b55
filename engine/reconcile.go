package engine

import "github.com/matchday/tournament-tracker/models"

// SideSubmission is one side of a submitted result: the entered team total
// and optional per-player lines.
type SideSubmission struct {
	Score   int
	Players []models.PlayerLine
}

// ResultSubmission is a structured result entry for a single match. When
// UseSummed is set, a side with player lines takes the sum of its player
// goals as the final score instead of the entered total.
type ResultSubmission struct {
	A         SideSubmission
	B         SideSubmission
	UseSummed bool
}

// SideDiscrepancy records a mismatch between the entered team total and the
// total summed from player lines.
type SideDiscrepancy struct {
	Entered int `json:"entered"`
	Summed  int `json:"summed"`
}

// DiscrepancyReport lists per-side mismatches. A side without player lines
// never conflicts.
type DiscrepancyReport struct {
	A *SideDiscrepancy `json:"a,omitempty"`
	B *SideDiscrepancy `json:"b,omitempty"`
}

// Clean reports whether the submission had no mismatches.
func (r DiscrepancyReport) Clean() bool {
	return r.A == nil && r.B == nil
}

// ReconcileResult turns a submission into the score line to persist plus a
// report of any entered-vs-summed conflicts. It reads only its arguments, so
// callers decide separately whether a dirty report blocks persistence.
func ReconcileResult(sub ResultSubmission) (models.ScoreLine, DiscrepancyReport) {
	var report DiscrepancyReport
	a, da := reconcileSide(sub.A, sub.UseSummed)
	b, db := reconcileSide(sub.B, sub.UseSummed)
	report.A, report.B = da, db

	line := models.ScoreLine{
		A:        a,
		B:        b,
		APlayers: sub.A.Players,
		BPlayers: sub.B.Players,
		AScorers: legacyScorers(sub.A.Players),
		BScorers: legacyScorers(sub.B.Players),
	}
	return line, report
}

func reconcileSide(side SideSubmission, useSummed bool) (int, *SideDiscrepancy) {
	if len(side.Players) == 0 {
		return side.Score, nil
	}
	summed := 0
	for _, p := range side.Players {
		summed += p.Goals
	}
	score := side.Score
	if useSummed {
		score = summed
	}
	if summed != side.Score {
		return score, &SideDiscrepancy{Entered: side.Score, Summed: summed}
	}
	return score, nil
}

// legacyScorers expands player goal counts into the one-name-per-goal list
// older stats readers consume.
func legacyScorers(players []models.PlayerLine) []string {
	var out []string
	for _, p := range players {
		for i := 0; i < p.Goals; i++ {
			out = append(out, p.Name)
		}
	}
	return out
}
