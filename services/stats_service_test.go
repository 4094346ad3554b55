package services

import (
	"context"
	"testing"

	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/store"
)

func TestPlayerStatsAggregation(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewStatsService(newTestTournamentService(st))
	ctx := context.Background()

	writeTournament(t, st, "AAAA11", models.Tournament{
		Config: models.TournamentConfig{Format: models.FormatLeague},
		Matches: map[string]models.Match{
			"m1": {
				Stage: models.StageLeague, CreatedAt: 1,
				Scores: &models.ScoreLine{
					A: 2, B: 1,
					APlayers: []models.PlayerLine{
						{Name: "Iva", Goals: 2, Assists: 0},
						{Name: "Max", Goals: 0, Assists: 2, Saves: 1},
					},
					BPlayers: []models.PlayerLine{{Name: "Rok", Goals: 1}},
				},
			},
			"m2": {
				Stage: models.StageLeague, CreatedAt: 2,
				Scores: &models.ScoreLine{
					A: 1, B: 0,
					APlayers: []models.PlayerLine{{Name: "Rok", Goals: 1, Assists: 1}},
				},
			},
			// Unplayed fixtures contribute nothing.
			"m3": {Stage: models.StageLeague, CreatedAt: 3},
		},
	})

	stats, err := svc.PlayerStats(ctx, "AAAA11")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("stats rows = %d", len(stats))
	}
	// Iva and Rok both have 2 goals; Rok's assist ranks him first.
	if stats[0].Name != "Rok" || stats[0].Goals != 2 || stats[0].Assists != 1 {
		t.Fatalf("first = %+v", stats[0])
	}
	if stats[1].Name != "Iva" || stats[1].Goals != 2 {
		t.Fatalf("second = %+v", stats[1])
	}
	if stats[2].Name != "Max" || stats[2].Assists != 2 || stats[2].Saves != 1 {
		t.Fatalf("third = %+v", stats[2])
	}
}

func TestPlayerStatsLegacyScorerLists(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewStatsService(newTestTournamentService(st))

	writeTournament(t, st, "AAAA11", models.Tournament{
		Config: models.TournamentConfig{Format: models.FormatLeague},
		Matches: map[string]models.Match{
			"m1": {
				Stage: models.StageLeague, CreatedAt: 1,
				Scores: &models.ScoreLine{
					A: 2, B: 1,
					AScorers: []string{"Iva", "Iva"},
					BScorers: []string{"Rok"},
				},
			},
		},
	})

	stats, err := svc.PlayerStats(context.Background(), "AAAA11")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 || stats[0].Name != "Iva" || stats[0].Goals != 2 || stats[1].Goals != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}
