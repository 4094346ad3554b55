package engine

import (
	"strings"
	"testing"

	"github.com/matchday/tournament-tracker/models"
)

func splitFixtures(matches []models.Match) (courts, byes []models.Match) {
	for _, m := range matches {
		if m.Bye {
			byes = append(byes, m)
		} else {
			courts = append(courts, m)
		}
	}
	return courts, byes
}

func sidePlayers(m models.Match) []string {
	return append(append([]string(nil), m.APlayers...), m.BPlayers...)
}

func TestAmericanoRejectsSmallField(t *testing.T) {
	gen := NewAmericanoGenerator()
	if _, err := gen.Generate(AmericanoParams{Players: entrants("A", "B", "C")}); err == nil {
		t.Fatal("expected error below 4 players")
	}
}

func TestAmericanoFourPlayersCoversAllPairings(t *testing.T) {
	gen := NewAmericanoGenerator()
	matches, err := gen.Generate(AmericanoParams{Players: entrants("A", "B", "C", "D")})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	courts, byes := splitFixtures(matches)
	if len(byes) != 0 {
		t.Fatalf("got %d byes, want 0", len(byes))
	}
	// Three rounds, one court each, every partnership exactly once.
	if len(courts) != 3 {
		t.Fatalf("got %d courts, want 3", len(courts))
	}
	partnerships := map[string]bool{}
	for _, m := range courts {
		for _, pair := range [][]string{m.APlayers, m.BPlayers} {
			key := PairKey(pair[0], pair[1])
			if partnerships[key] {
				t.Errorf("partnership %s repeated", key)
			}
			partnerships[key] = true
		}
		if m.PointsToWin != models.DefaultPointsToWin {
			t.Errorf("points to win %d, want %d", m.PointsToWin, models.DefaultPointsToWin)
		}
	}
	if len(partnerships) != 6 {
		t.Errorf("%d distinct partnerships, want 6", len(partnerships))
	}
}

func TestAmericanoOddRosterRotatesByes(t *testing.T) {
	gen := NewAmericanoGenerator()
	matches, err := gen.Generate(AmericanoParams{Players: entrants("A", "B", "C", "D", "E")})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	courts, byes := splitFixtures(matches)
	// Five rounds: one court and one resting player each.
	if len(courts) != 5 || len(byes) != 5 {
		t.Fatalf("got %d courts and %d byes, want 5 and 5", len(courts), len(byes))
	}
	perRound := map[string]int{}
	for _, b := range byes {
		if b.PlayerID == "" || b.PlayerName == "" {
			t.Errorf("bye missing player identity: %+v", b)
		}
		perRound[b.Round]++
	}
	for round, n := range perRound {
		if n != 1 {
			t.Errorf("%s has %d resting players, want 1", round, n)
		}
	}
	byRound := map[string][]string{}
	for _, m := range courts {
		byRound[m.Round] = append(byRound[m.Round], sidePlayers(m)...)
	}
	for _, b := range byes {
		for _, active := range byRound[b.Round] {
			if active == b.PlayerID {
				t.Errorf("player %s both rests and plays in %s", b.PlayerID, b.Round)
			}
		}
	}
}

func TestAmericanoSixPlayersUsesExtendedPlan(t *testing.T) {
	gen := NewAmericanoGenerator()
	matches, err := gen.Generate(AmericanoParams{
		Players:     entrants("A", "B", "C", "D", "E", "F"),
		PointsToWin: 21,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	courts, byes := splitFixtures(matches)
	// n+2 = 8 rounds, each with one court and two resting players.
	if len(courts) != 8 {
		t.Fatalf("got %d courts, want 8", len(courts))
	}
	if len(byes) != 16 {
		t.Fatalf("got %d bye records, want 16", len(byes))
	}

	perRoundCourts := map[string]int{}
	perRoundRests := map[string][]string{}
	for _, m := range courts {
		perRoundCourts[m.Round]++
		if m.PointsToWin != 21 {
			t.Errorf("points to win %d, want 21", m.PointsToWin)
		}
	}
	for _, b := range byes {
		perRoundRests[b.Round] = append(perRoundRests[b.Round], b.PlayerID)
	}
	if len(perRoundCourts) != 8 {
		t.Fatalf("courts spread over %d rounds, want 8", len(perRoundCourts))
	}
	for round, n := range perRoundCourts {
		if n != 1 {
			t.Errorf("%s has %d courts, want 1", round, n)
		}
		if len(perRoundRests[round]) != 2 {
			t.Errorf("%s has %d resting players, want 2", round, len(perRoundRests[round]))
		}
	}

	// 16 rest slots over 6 players: nobody rests fewer than 2 or more than 3
	// times.
	restCounts := map[string]int{}
	for _, b := range byes {
		restCounts[b.PlayerID]++
	}
	if len(restCounts) != 6 {
		t.Fatalf("%d players rested, want all 6", len(restCounts))
	}
	for id, c := range restCounts {
		if c < 2 || c > 3 {
			t.Errorf("player %s rested %d times, want 2 or 3", id, c)
		}
	}
}

func TestAmericanoEncountersExtendRoundNumbering(t *testing.T) {
	gen := NewAmericanoGenerator()
	matches, err := gen.Generate(AmericanoParams{
		Players:    entrants("A", "B", "C", "D"),
		Encounters: 2,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(matches) != 6 {
		t.Fatalf("got %d matches, want 6", len(matches))
	}
	rounds := map[string]bool{}
	for _, m := range matches {
		rounds[m.Round] = true
		if m.Encounter != 1 && m.Encounter != 2 {
			t.Errorf("encounter %d out of range", m.Encounter)
		}
	}
	for i := 1; i <= 6; i++ {
		want := "Round " + string(rune('0'+i))
		if !rounds[want] {
			t.Errorf("missing %q; have %v", want, rounds)
		}
	}
}

func TestAmericanoSidesNameBothPartners(t *testing.T) {
	gen := NewAmericanoGenerator()
	matches, err := gen.Generate(AmericanoParams{Players: entrants("A", "B", "C", "D")})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, m := range matches {
		if !strings.Contains(m.TeamA, " / ") || !strings.Contains(m.TeamB, " / ") {
			t.Errorf("side labels %q vs %q missing partner separator", m.TeamA, m.TeamB)
		}
	}
}

func TestPairCourtsRecordsFreshPartnerships(t *testing.T) {
	used := map[string]bool{}
	courts := pairCourts(entrants("A", "B", "C", "D"), used)
	if len(courts) != 1 {
		t.Fatalf("courts = %d, want 1", len(courts))
	}
	if len(used) != 2 {
		t.Fatalf("partnership memory = %v, want both court pairs", used)
	}
}

func TestPairCourtsKeepsForcedRepeatOutOfMemory(t *testing.T) {
	players := entrants("A", "B", "C", "D")
	// Every matching pairs a fresh partnership with a used one, so the
	// court is forced into a repeat via the sequential fallback.
	used := map[string]bool{
		PairKey("id-C", "id-D"): true,
		PairKey("id-B", "id-D"): true,
		PairKey("id-B", "id-C"): true,
	}

	courts := pairCourts(players, used)
	if len(courts) != 1 {
		t.Fatalf("courts = %d, want 1", len(courts))
	}
	c := courts[0]
	if c[0].ID != "id-A" || c[1].ID != "id-B" || c[2].ID != "id-C" || c[3].ID != "id-D" {
		t.Fatalf("fallback court = %v", c)
	}
	if used[PairKey("id-A", "id-B")] {
		t.Fatal("forced repeat pairing recorded as a fresh partnership")
	}
	if len(used) != 3 {
		t.Fatalf("partnership memory grew: %v", used)
	}
}
