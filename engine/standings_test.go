package engine

import (
	"testing"

	"github.com/matchday/tournament-tracker/models"
)

func teamMap(names ...string) map[string]models.Team {
	out := make(map[string]models.Team, len(names))
	for _, n := range names {
		out["id-"+n] = models.Team{Name: n, Approved: true}
	}
	return out
}

func played(a, b string, sa, sb int) models.Match {
	return models.Match{
		TeamAID: "id-" + a, TeamA: a,
		TeamBID: "id-" + b, TeamB: b,
		Stage:  models.StageLeague,
		Scores: &models.ScoreLine{A: sa, B: sb},
	}
}

func TestCalcStandingsRanking(t *testing.T) {
	teams := teamMap("Ajax", "Boca", "Celta", "Dinamo")
	matches := map[string]models.Match{
		"m1": played("Ajax", "Boca", 2, 0),
		"m2": played("Ajax", "Celta", 1, 1),
		"m3": played("Boca", "Celta", 0, 3),
		"m4": played("Dinamo", "Ajax", 0, 0),
		"m5": played("Dinamo", "Boca", 2, 2),
		"m6": {TeamAID: "id-Celta", TeamBID: "id-Dinamo", Stage: models.StageLeague}, // unplayed
	}

	rows := CalcStandings(matches, teams)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	wantOrder := []string{"Ajax", "Celta", "Dinamo", "Boca"}
	for i, name := range wantOrder {
		if rows[i].Name != name {
			t.Fatalf("position %d: got %q, want %q (rows %+v)", i+1, rows[i].Name, name, rows)
		}
	}

	ajax := rows[0]
	if ajax.Points != 5 || ajax.Wins != 1 || ajax.Draws != 2 || ajax.GoalsFor != 3 || ajax.GoalsAgainst != 1 {
		t.Errorf("Ajax row off: %+v", ajax)
	}
	celta := rows[1]
	if celta.Points != 4 || celta.Wins != 1 || celta.Draws != 1 {
		t.Errorf("Celta row off: %+v", celta)
	}

	// A decisive match awards 3 points total, a draw 2; m6 awards none.
	total := 0
	for _, r := range rows {
		total += r.Points
	}
	if total != 2*3+3*2 {
		t.Errorf("total points %d, want 12", total)
	}
}

func TestCalcStandingsTieBreakers(t *testing.T) {
	teams := teamMap("Aves", "Vidi", "Zud")
	cases := []struct {
		name    string
		matches map[string]models.Match
		order   []string
	}{
		{
			name: "goal difference before goals for",
			matches: map[string]models.Match{
				"m1": played("Aves", "Zud", 2, 0),
				"m2": played("Vidi", "Zud", 5, 4),
			},
			// Both winners on 3 points; Aves +2 beats Vidi +1 despite
			// Vidi scoring more.
			order: []string{"Aves", "Vidi", "Zud"},
		},
		{
			name: "goals for when difference ties",
			matches: map[string]models.Match{
				"m1": played("Aves", "Zud", 1, 1),
				"m2": played("Vidi", "Zud", 4, 4),
			},
			// Zud leads on 2 points; Vidi and Aves tie on points and
			// difference, Vidi's 4 goals outrank Aves' 1.
			order: []string{"Zud", "Vidi", "Aves"},
		},
		{
			name: "name when everything ties",
			matches: map[string]models.Match{
				"m1": played("Aves", "Vidi", 1, 1),
			},
			order: []string{"Aves", "Vidi", "Zud"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := CalcStandings(tc.matches, teams)
			for i, name := range tc.order {
				if rows[i].Name != name {
					t.Fatalf("position %d: got %q, want %q", i+1, rows[i].Name, name)
				}
			}
		})
	}
}

func TestCalcStandingsSkipsOutOfScopeParticipants(t *testing.T) {
	teams := teamMap("Aves", "Vidi")
	matches := map[string]models.Match{
		"m1": played("Aves", "Vidi", 1, 0),
		"m2": {TeamAID: "id-Aves", TeamBID: "id-Ghost", Scores: &models.ScoreLine{A: 9, B: 0}},
	}
	rows := CalcStandings(matches, teams)
	if rows[0].Name != "Aves" || rows[0].Played != 1 || rows[0].GoalsFor != 1 {
		t.Fatalf("out-of-scope match leaked into standings: %+v", rows[0])
	}
}

func TestAmericanoTableCreditsBothPartners(t *testing.T) {
	teams := teamMap("Ana", "Bo", "Cy", "Di")
	matches := map[string]models.Match{
		"m1": {
			Stage:    models.StageAmericano,
			APlayers: []string{"id-Ana", "id-Bo"},
			BPlayers: []string{"id-Cy", "id-Di"},
			Scores:   &models.ScoreLine{A: 16, B: 9},
		},
		"m2": {
			Stage:    models.StageAmericano,
			APlayers: []string{"id-Ana", "id-Cy"},
			BPlayers: []string{"id-Bo", "id-Di"},
			Scores:   &models.ScoreLine{A: 11, B: 16},
		},
		"m3": {Stage: models.StageAmericano, Bye: true, PlayerID: "id-Di"},
	}

	rows := AmericanoTable(matches, teams)
	want := map[string]int{"Ana": 27, "Bo": 32, "Cy": 20, "Di": 25}
	for _, r := range rows {
		if r.Points != want[r.Name] {
			t.Errorf("%s: %d points, want %d", r.Name, r.Points, want[r.Name])
		}
		if r.Played != 2 {
			t.Errorf("%s: played %d, want 2", r.Name, r.Played)
		}
	}
	if rows[0].Name != "Bo" {
		t.Errorf("leader %q, want Bo", rows[0].Name)
	}
}
