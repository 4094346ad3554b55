package engine

import (
	"reflect"
	"testing"

	"github.com/matchday/tournament-tracker/models"
)

func TestBuildEliminationSummary(t *testing.T) {
	teams := teamMap("Ajax", "Boca", "Celta", "Dinamo", "Erts")
	matches := map[string]models.Match{
		"k1": {
			TeamAID: "id-Ajax", TeamBID: "id-Boca", Stage: models.StageKnockout,
			Scores: &models.ScoreLine{A: 2, B: 0},
		},
		"k2": {
			TeamAID: "id-Celta", TeamBID: "id-Dinamo", Stage: models.StageKnockout,
			Scores: &models.ScoreLine{A: 1, B: 3},
		},
		"k3": {TeamAID: "id-Erts", Stage: models.StageKnockout, Bye: true},
		// Unplayed and drawn fixtures eliminate nobody.
		"k4": {TeamAID: "id-Ajax", TeamBID: "id-Dinamo", Stage: models.StageKnockout},
		// League results never touch the knockout summary.
		"l1": {
			TeamAID: "id-Erts", TeamBID: "id-Ajax", Stage: models.StageLeague,
			Scores: &models.ScoreLine{A: 5, B: 0},
		},
	}

	summary := BuildEliminationSummary(matches, teams)
	if want := []string{"Ajax", "Dinamo", "Erts"}; !reflect.DeepEqual(summary.Remaining, want) {
		t.Errorf("remaining %v, want %v", summary.Remaining, want)
	}
	if want := []string{"Boca", "Celta"}; !reflect.DeepEqual(summary.Eliminated, want) {
		t.Errorf("eliminated %v, want %v", summary.Eliminated, want)
	}
}

func TestBuildEliminationSummaryCoversWholeRoster(t *testing.T) {
	// Celta and Dinamo went out in the group stage and never reached a
	// knockout fixture; they still belong to exactly one list.
	teams := teamMap("Ajax", "Boca", "Celta", "Dinamo")
	matches := map[string]models.Match{
		"k1": {
			TeamAID: "id-Ajax", TeamBID: "id-Boca", Stage: models.StageKnockout,
			Scores: &models.ScoreLine{A: 2, B: 0},
		},
	}

	summary := BuildEliminationSummary(matches, teams)
	if want := []string{"Ajax", "Celta", "Dinamo"}; !reflect.DeepEqual(summary.Remaining, want) {
		t.Errorf("remaining %v, want %v", summary.Remaining, want)
	}
	if want := []string{"Boca"}; !reflect.DeepEqual(summary.Eliminated, want) {
		t.Errorf("eliminated %v, want %v", summary.Eliminated, want)
	}
	for _, tm := range teams {
		listed := 0
		for _, name := range summary.Remaining {
			if name == tm.Name {
				listed++
			}
		}
		for _, name := range summary.Eliminated {
			if name == tm.Name {
				listed++
			}
		}
		if listed != 1 {
			t.Errorf("%s listed %d times, want exactly 1", tm.Name, listed)
		}
	}
}

func TestBuildEliminationSummaryEmptyBracket(t *testing.T) {
	summary := BuildEliminationSummary(nil, teamMap("Ajax"))
	if len(summary.Remaining) != 0 || len(summary.Eliminated) != 0 {
		t.Fatalf("empty bracket produced %+v", summary)
	}
}
