package engine

import (
	"sort"

	"github.com/matchday/tournament-tracker/models"
)

// CalcStandings builds the ranked win/draw/loss table for one scope (whole
// tournament, one group, or one knockout round). Matches without a complete
// result, and matches referencing a participant outside the scope, are
// skipped rather than treated as errors so display stays resilient to stale
// data.
//
// Scoring is the classic football scheme: 3 for a win, 1 each for a draw.
func CalcStandings(matches map[string]models.Match, teams map[string]models.Team) []models.StandingsRow {
	table := make(map[string]*models.StandingsRow, len(teams))
	for id, tm := range teams {
		table[id] = &models.StandingsRow{TeamID: id, Name: tm.Name}
	}

	for _, m := range matches {
		if !m.Played() {
			continue
		}
		a, okA := table[m.TeamAID]
		b, okB := table[m.TeamBID]
		if !okA || !okB {
			continue
		}
		a.Played++
		b.Played++
		a.GoalsFor += m.Scores.A
		a.GoalsAgainst += m.Scores.B
		b.GoalsFor += m.Scores.B
		b.GoalsAgainst += m.Scores.A
		switch {
		case m.Scores.A == m.Scores.B:
			a.Draws++
			b.Draws++
			a.Points++
			b.Points++
		case m.Scores.A > m.Scores.B:
			a.Wins++
			b.Losses++
			a.Points += 3
		default:
			b.Wins++
			a.Losses++
			b.Points += 3
		}
	}

	rows := make([]models.StandingsRow, 0, len(table))
	for _, r := range table {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		x, y := rows[i], rows[j]
		if x.Points != y.Points {
			return x.Points > y.Points
		}
		if x.GoalDifference() != y.GoalDifference() {
			return x.GoalDifference() > y.GoalDifference()
		}
		if x.GoalsFor != y.GoalsFor {
			return x.GoalsFor > y.GoalsFor
		}
		return x.Name < y.Name
	})
	return rows
}

// AmericanoTable is the per-player cumulative points table for the doubles
// format: both players of a side earn that side's full score.
func AmericanoTable(matches map[string]models.Match, teams map[string]models.Team) []models.AmericanoRow {
	points := make(map[string]*models.AmericanoRow, len(teams))
	for id, tm := range teams {
		points[id] = &models.AmericanoRow{PlayerID: id, Name: tm.Name}
	}
	for _, m := range matches {
		if m.Stage != models.StageAmericano || !m.Played() {
			continue
		}
		for _, pid := range m.APlayers {
			if row, ok := points[pid]; ok {
				row.Points += m.Scores.A
				row.Played++
			}
		}
		for _, pid := range m.BPlayers {
			if row, ok := points[pid]; ok {
				row.Points += m.Scores.B
				row.Played++
			}
		}
	}
	rows := make([]models.AmericanoRow, 0, len(points))
	for _, r := range points {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
