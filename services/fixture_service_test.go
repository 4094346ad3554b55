package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/matchday/tournament-tracker/engine"
	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFixtureService(st store.Store) FixtureService {
	ko := engine.NewKnockoutGenerator(rand.New(rand.NewSource(1)))
	return NewFixtureService(st, ko, nil, testLogger())
}

func seedTournament(t *testing.T, st store.Store, code string, format models.Format, teamNames ...string) {
	t.Helper()
	teams := make(map[string]models.Team, len(teamNames))
	for i, name := range teamNames {
		teams["team-"+name] = models.Team{
			Name:      name,
			Approved:  true,
			CreatedAt: int64(1000 + i),
		}
	}
	doc := models.Tournament{
		Config: models.TournamentConfig{
			Name:   "Test Cup",
			Sport:  "football",
			Format: format,
		},
		Admin: "admin-uid",
		Teams: teams,
	}
	if err := st.Write(context.Background(), store.TournamentPath(code), doc); err != nil {
		t.Fatalf("seed tournament: %v", err)
	}
}

func loadMatches(t *testing.T, st store.Store, code string) map[string]models.Match {
	t.Helper()
	var matches map[string]models.Match
	err := st.Read(context.Background(), store.MatchesPath(code), &matches)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]models.Match{}
	}
	if err != nil {
		t.Fatalf("read matches: %v", err)
	}
	return matches
}

func playAllMatches(t *testing.T, st store.Store, code string, stage models.Stage) {
	t.Helper()
	matches := loadMatches(t, st, code)
	for id, m := range matches {
		if m.Stage != stage || m.Bye || m.Played() {
			continue
		}
		// TeamA wins everything, which is enough to resolve a stage.
		m.Scores = &models.ScoreLine{A: 2, B: 0}
		matches[id] = m
	}
	if err := st.Write(context.Background(), store.MatchesPath(code), matches); err != nil {
		t.Fatalf("write played matches: %v", err)
	}
}

func TestGenerateFixturesUnknownTournament(t *testing.T) {
	svc := newTestFixtureService(store.NewMemoryStore())
	if _, err := svc.GenerateFixtures(context.Background(), "NOPE", false); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestGenerateFixturesNeedsTwoTeams(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatLeague, "Ajax")
	svc := newTestFixtureService(st)

	res, err := svc.GenerateFixtures(context.Background(), "AAAA11", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Status != StatusNeedTwoTeams || res.Created != 0 {
		t.Fatalf("result = %+v", res)
	}
	if got := loadMatches(t, st, "AAAA11"); len(got) != 0 {
		t.Fatalf("failed precondition must not write: %d matches", len(got))
	}
}

func TestGenerateLeagueFixtures(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatLeague, "Ajax", "Boca", "Celta")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	res, err := svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Status != StatusLeagueGenerated || res.Created != 3 {
		t.Fatalf("result = %+v", res)
	}
	if got := loadMatches(t, st, "AAAA11"); len(got) != 3 {
		t.Fatalf("stored %d matches, want 3", len(got))
	}

	// An additive rerun with nothing missing schedules nothing.
	res, err = svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if res.Status != StatusNothingToGenerate || res.Created != 0 {
		t.Fatalf("rerun result = %+v", res)
	}
	if got := loadMatches(t, st, "AAAA11"); len(got) != 3 {
		t.Fatalf("rerun stored %d matches, want 3", len(got))
	}
}

func TestGenerateLeagueTopsUpNewTeam(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatLeague, "Ajax", "Boca")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	if _, err := svc.GenerateFixtures(ctx, "AAAA11", false); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := st.Write(ctx, store.TeamPath("AAAA11", "team-Celta"), models.Team{
		Name:      "Celta",
		Approved:  true,
		CreatedAt: 2000,
	}); err != nil {
		t.Fatalf("add team: %v", err)
	}

	res, err := svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("top-up: %v", err)
	}
	if res.Status != StatusLeagueGenerated || res.Created != 2 {
		t.Fatalf("top-up result = %+v", res)
	}
	if got := loadMatches(t, st, "AAAA11"); len(got) != 3 {
		t.Fatalf("stored %d matches after top-up, want 3", len(got))
	}
}

func TestGenerateLeagueRegenerateReplaces(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatLeague, "Ajax", "Boca")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	if _, err := svc.GenerateFixtures(ctx, "AAAA11", false); err != nil {
		t.Fatalf("generate: %v", err)
	}
	playAllMatches(t, st, "AAAA11", models.StageLeague)

	res, err := svc.GenerateFixtures(ctx, "AAAA11", true)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if res.Status != StatusLeagueGenerated || res.Created != 1 {
		t.Fatalf("regenerate result = %+v", res)
	}
	for id, m := range loadMatches(t, st, "AAAA11") {
		if m.Played() {
			t.Fatalf("regeneration kept played fixture %s", id)
		}
	}
}

func TestGenerateKnockoutFixtures(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatKnockout, "Ajax", "Boca", "Celta", "Dinamo", "Erts")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	res, err := svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Status != StatusKnockoutGenerated || res.Created != 3 {
		t.Fatalf("result = %+v", res)
	}
	var byes, courts int
	for _, m := range loadMatches(t, st, "AAAA11") {
		if m.Stage != models.StageKnockout {
			t.Fatalf("unexpected stage %q", m.Stage)
		}
		if m.Bye {
			byes++
		} else {
			courts++
		}
	}
	if byes != 1 || courts != 2 {
		t.Fatalf("byes=%d courts=%d", byes, courts)
	}

	res, err = svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if res.Status != StatusKnockoutExists || res.Created != 0 {
		t.Fatalf("rerun result = %+v", res)
	}
}

func TestGenerateAmericanoFixtures(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatAmericano, "Ana", "Bo", "Cy", "Di")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	res, err := svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Status != StatusAmericanoGenerated || res.Created != 3 {
		t.Fatalf("result = %+v", res)
	}

	res, err = svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if res.Status != StatusAmericanoExists || res.Created != 0 {
		t.Fatalf("rerun result = %+v", res)
	}
}

func TestGenerateAmericanoNeedsFourPlayers(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatAmericano, "Ana", "Bo", "Cy")
	svc := newTestFixtureService(st)

	res, err := svc.GenerateFixtures(context.Background(), "AAAA11", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Status != StatusNeedFourPlayers {
		t.Fatalf("result = %+v", res)
	}
}

func TestGroupsKnockoutFullFlow(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatGroupsKnockout,
		"Ajax", "Boca", "Celta", "Dinamo", "Erts", "Flora", "Genk", "Hansa")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	// Phase one partitions the roster into two groups of four and schedules
	// a round robin inside each.
	res, err := svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("group phase: %v", err)
	}
	if res.Status != StatusGroupsGenerated || res.Created != 12 {
		t.Fatalf("group phase result = %+v", res)
	}
	var teams map[string]models.Team
	if err := st.Read(ctx, store.TeamsPath("AAAA11"), &teams); err != nil {
		t.Fatalf("read teams: %v", err)
	}
	groupSizes := make(map[string]int)
	for _, tm := range teams {
		if tm.Group == "" {
			t.Fatalf("team %q left without a group", tm.Name)
		}
		groupSizes[tm.Group]++
	}
	if len(groupSizes) != 2 || groupSizes["A"] != 4 || groupSizes["B"] != 4 {
		t.Fatalf("group sizes = %v", groupSizes)
	}

	// Knockout is blocked until every group match has a result.
	res, err = svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("premature knockout: %v", err)
	}
	if res.Status != StatusGroupsIncomplete || res.Created != 0 {
		t.Fatalf("premature knockout result = %+v", res)
	}

	playAllMatches(t, st, "AAAA11", models.StageGroup)

	res, err = svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("knockout phase: %v", err)
	}
	if res.Status != StatusKnockoutGenerated || res.Created != 2 {
		t.Fatalf("knockout phase result = %+v", res)
	}
	for _, m := range loadMatches(t, st, "AAAA11") {
		if m.Stage == models.StageKnockout && m.Round != engine.RoundLabel(4) {
			t.Fatalf("knockout round label = %q", m.Round)
		}
	}

	// With both stages in place there is nothing left to schedule.
	res, err = svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("idle rerun: %v", err)
	}
	if res.Status != StatusNothingToGenerate {
		t.Fatalf("idle rerun result = %+v", res)
	}
}

func TestGroupsKnockoutRegenerateClearsKnockout(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatGroupsKnockout,
		"Ajax", "Boca", "Celta", "Dinamo", "Erts", "Flora", "Genk", "Hansa")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	if _, err := svc.GenerateFixtures(ctx, "AAAA11", false); err != nil {
		t.Fatalf("group phase: %v", err)
	}
	playAllMatches(t, st, "AAAA11", models.StageGroup)
	if _, err := svc.GenerateFixtures(ctx, "AAAA11", false); err != nil {
		t.Fatalf("knockout phase: %v", err)
	}

	res, err := svc.GenerateFixtures(ctx, "AAAA11", true)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if res.Status != StatusGroupsGenerated || res.Created != 12 {
		t.Fatalf("regenerate result = %+v", res)
	}
	matches := loadMatches(t, st, "AAAA11")
	if len(matches) != 12 {
		t.Fatalf("stored %d matches after regenerate, want 12", len(matches))
	}
	for id, m := range matches {
		if m.Stage == models.StageKnockout {
			t.Fatalf("regenerating groups kept derived knockout fixture %s", id)
		}
		if m.Played() {
			t.Fatalf("regenerating groups kept played fixture %s", id)
		}
	}
}

func TestGroupsKnockoutNeedsFourTeams(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatGroupsKnockout, "Ajax", "Boca", "Celta")
	svc := newTestFixtureService(st)

	res, err := svc.GenerateFixtures(context.Background(), "AAAA11", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Status != StatusNeedFourTeams {
		t.Fatalf("result = %+v", res)
	}
}

func TestGroupsKnockoutAdvanceTooLarge(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatGroupsKnockout,
		"Ajax", "Boca", "Celta", "Dinamo", "Erts", "Flora", "Genk", "Hansa")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	if _, err := svc.GenerateFixtures(ctx, "AAAA11", false); err != nil {
		t.Fatalf("group phase: %v", err)
	}
	playAllMatches(t, st, "AAAA11", models.StageGroup)

	advance := 5
	if err := st.Patch(ctx, store.TournamentConfigPath("AAAA11"), map[string]interface{}{
		"advancePerGroup": advance,
	}); err != nil {
		t.Fatalf("patch config: %v", err)
	}

	res, err := svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("knockout phase: %v", err)
	}
	if res.Status != StatusAdvanceTooLarge || res.Created != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestGroupsKnockoutBracketIncompatible(t *testing.T) {
	st := store.NewMemoryStore()
	// Twelve teams split into three groups; two advancing per group gives six
	// seeds, which no bracket size accepts.
	seedTournament(t, st, "AAAA11", models.FormatGroupsKnockout,
		"Ajax", "Boca", "Celta", "Dinamo", "Erts", "Flora",
		"Genk", "Hansa", "Inter", "Jove", "Koper", "Lazio")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	if _, err := svc.GenerateFixtures(ctx, "AAAA11", false); err != nil {
		t.Fatalf("group phase: %v", err)
	}
	playAllMatches(t, st, "AAAA11", models.StageGroup)

	res, err := svc.GenerateFixtures(ctx, "AAAA11", false)
	if err != nil {
		t.Fatalf("knockout phase: %v", err)
	}
	if res.Status != StatusBracketIncompatible || res.Created != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestAdvanceKnockoutFlow(t *testing.T) {
	st := store.NewMemoryStore()
	seedTournament(t, st, "AAAA11", models.FormatKnockout, "Ajax", "Boca", "Celta", "Dinamo")
	svc := newTestFixtureService(st)
	ctx := context.Background()

	if _, err := svc.GenerateFixtures(ctx, "AAAA11", false); err != nil {
		t.Fatalf("generate: %v", err)
	}

	res, err := svc.AdvanceKnockout(ctx, "AAAA11")
	if err != nil {
		t.Fatalf("advance with open round: %v", err)
	}
	if res.Status != StatusKnockoutRoundOpen {
		t.Fatalf("open round result = %+v", res)
	}

	playAllMatches(t, st, "AAAA11", models.StageKnockout)
	res, err = svc.AdvanceKnockout(ctx, "AAAA11")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res.Status != StatusNextRoundGenerated || res.Created != 1 {
		t.Fatalf("advance result = %+v", res)
	}

	playAllMatches(t, st, "AAAA11", models.StageKnockout)
	res, err = svc.AdvanceKnockout(ctx, "AAAA11")
	if err != nil {
		t.Fatalf("advance past final: %v", err)
	}
	if res.Status != StatusBracketComplete || res.Created != 0 {
		t.Fatalf("final result = %+v", res)
	}
}
