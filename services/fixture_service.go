package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/matchday/tournament-tracker/engine"
	"github.com/matchday/tournament-tracker/live"
	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/store"
)

// Status messages produced by fixture generation. Every failed precondition
// reports one of these and writes nothing; they are user-facing outcomes,
// not errors.
const (
	StatusNeedTwoTeams        = "Need at least 2 teams"
	StatusNeedFourPlayers     = "Need at least 4 players"
	StatusNeedFourTeams       = "Need at least 4 teams for groups"
	StatusAmericanoExists     = "Americano fixtures already generated"
	StatusKnockoutExists      = "Knockout fixtures already generated"
	StatusGroupsIncomplete    = "Complete all group matches before knockout"
	StatusAdvanceTooLarge     = "Advance per group exceeds a group size"
	StatusBracketIncompatible = "Advanced teams count not bracket-compatible"
	StatusKnockoutRoundOpen   = "Complete the current knockout round first"
	StatusBracketComplete     = "Knockout bracket is complete"
	StatusGroupsGenerated     = "Group fixtures generated"
	StatusKnockoutGenerated   = "Knockout fixtures generated"
	StatusAmericanoGenerated  = "Americano fixtures generated"
	StatusLeagueGenerated     = "League fixtures generated"
	StatusNextRoundGenerated  = "Next knockout round generated"
	StatusNothingToGenerate   = "Nothing to generate"
)

// GenerateResult is the outcome of one generation request.
type GenerateResult struct {
	Status  string `json:"status"`
	Created int    `json:"created"`
}

type FixtureService interface {
	// GenerateFixtures runs the format-specific scheduler for a tournament.
	// With regenerate set, existing fixtures of the affected stage (and any
	// stage derived from it) are replaced; otherwise generation is additive.
	GenerateFixtures(ctx context.Context, code string, regenerate bool) (*GenerateResult, error)
	// AdvanceKnockout builds the next knockout round once the current one is
	// fully resolved.
	AdvanceKnockout(ctx context.Context, code string) (*GenerateResult, error)
}

type fixtureService struct {
	store  store.Store
	rr     *engine.RoundRobinGenerator
	ko     *engine.KnockoutGenerator
	am     *engine.AmericanoGenerator
	hub    *live.Hub
	logger *slog.Logger
	now    func() int64
}

func NewFixtureService(st store.Store, ko *engine.KnockoutGenerator, hub *live.Hub, logger *slog.Logger) FixtureService {
	return &fixtureService{
		store:  st,
		rr:     engine.NewRoundRobinGenerator(),
		ko:     ko,
		am:     engine.NewAmericanoGenerator(),
		hub:    hub,
		logger: logger,
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *fixtureService) GenerateFixtures(ctx context.Context, code string, regenerate bool) (*GenerateResult, error) {
	var t models.Tournament
	if err := s.store.Read(ctx, store.TournamentPath(code), &t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("read tournament %s: %w", code, err)
	}

	eligible := t.SchedulableTeams()
	if len(eligible) < 2 {
		return &GenerateResult{Status: StatusNeedTwoTeams}, nil
	}

	var (
		res *GenerateResult
		err error
	)
	switch t.Config.Format {
	case models.FormatAmericano:
		res, err = s.generateAmericano(ctx, code, &t, eligible, regenerate)
	case models.FormatKnockout:
		res, err = s.generateKnockout(ctx, code, &t, eligible, regenerate)
	case models.FormatGroupsKnockout:
		res, err = s.generateGroupsKnockout(ctx, code, &t, eligible, regenerate)
	case models.FormatLeague:
		res, err = s.generateLeague(ctx, code, &t, eligible, regenerate)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, t.Config.Format)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixture generation finished",
		slog.String("tournament", code),
		slog.String("format", string(t.Config.Format)),
		slog.Bool("regenerate", regenerate),
		slog.String("status", res.Status),
		slog.Int("created", res.Created))

	if res.Created > 0 {
		s.notify(ctx, code)
	}
	return res, nil
}

func (s *fixtureService) generateAmericano(ctx context.Context, code string, t *models.Tournament, eligible map[string]models.Team, regenerate bool) (*GenerateResult, error) {
	if !regenerate && t.HasStage(models.StageAmericano) {
		return &GenerateResult{Status: StatusAmericanoExists}, nil
	}
	if len(eligible) < 4 {
		return &GenerateResult{Status: StatusNeedFourPlayers}, nil
	}
	matches, err := s.am.Generate(engine.AmericanoParams{
		Players:     engine.Roster(eligible),
		Encounters:  t.Config.EncounterCount(),
		PointsToWin: t.Config.PointsTarget(),
		Now:         s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, code, t, matches, regenerate, models.StageAmericano); err != nil {
		return nil, err
	}
	return &GenerateResult{Status: StatusAmericanoGenerated, Created: len(matches)}, nil
}

func (s *fixtureService) generateKnockout(ctx context.Context, code string, t *models.Tournament, eligible map[string]models.Team, regenerate bool) (*GenerateResult, error) {
	if !regenerate && t.HasStage(models.StageKnockout) {
		return &GenerateResult{Status: StatusKnockoutExists}, nil
	}
	matches, err := s.ko.GenerateFirstRound(engine.Roster(eligible), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, code, t, matches, regenerate, models.StageKnockout); err != nil {
		return nil, err
	}
	return &GenerateResult{Status: StatusKnockoutGenerated, Created: len(matches)}, nil
}

// generateGroupsKnockout covers both phases of the combined format. The
// first invocation partitions the roster and schedules the group stage; once
// every group match has a result, the next invocation seeds and schedules
// the knockout stage from group standings.
func (s *fixtureService) generateGroupsKnockout(ctx context.Context, code string, t *models.Tournament, eligible map[string]models.Team, regenerate bool) (*GenerateResult, error) {
	hasGroups := t.HasStage(models.StageGroup)
	hasKnockout := t.HasStage(models.StageKnockout)

	if !hasGroups || regenerate {
		if len(eligible) < 4 {
			return &GenerateResult{Status: StatusNeedFourTeams}, nil
		}
		assigned, err := s.ensureGroups(ctx, code, eligible)
		if err != nil {
			return nil, err
		}
		var matches []models.Match
		byGroup := engine.GroupTeams(assigned)
		for _, g := range engine.GroupKeys(byGroup) {
			groupMatches, err := s.rr.Generate(engine.RoundRobinParams{
				Entrants:   engine.Roster(byGroup[g]),
				Encounters: t.Config.EncounterCount(),
				Stage:      models.StageGroup,
				Group:      g,
				Now:        s.now(),
			})
			if err != nil {
				return nil, err
			}
			matches = append(matches, groupMatches...)
		}
		// Replacing the group stage invalidates any knockout derived from it.
		if err := s.persist(ctx, code, t, matches, regenerate, models.StageGroup, models.StageKnockout); err != nil {
			return nil, err
		}
		return &GenerateResult{Status: StatusGroupsGenerated, Created: len(matches)}, nil
	}

	if hasKnockout {
		return &GenerateResult{Status: StatusNothingToGenerate}, nil
	}

	groupMatches := t.MatchesByStage(models.StageGroup)
	for _, m := range groupMatches {
		if !m.Played() {
			return &GenerateResult{Status: StatusGroupsIncomplete}, nil
		}
	}

	byGroup := engine.GroupTeams(eligible)
	keys := engine.GroupKeys(byGroup)
	advance := 2
	if t.Config.AdvancePerGroup != nil && *t.Config.AdvancePerGroup > 0 {
		advance = *t.Config.AdvancePerGroup
	}
	for _, g := range keys {
		if advance > len(byGroup[g]) {
			return &GenerateResult{Status: StatusAdvanceTooLarge}, nil
		}
	}

	standingsByGroup := make(map[string][]models.StandingsRow, len(keys))
	for _, g := range keys {
		scoped := make(map[string]models.Match)
		for id, m := range groupMatches {
			if m.Group == g {
				scoped[id] = m
			}
		}
		standingsByGroup[g] = engine.CalcStandings(scoped, byGroup[g])
	}

	seeds, err := engine.SeedFromGroups(standingsByGroup, advance)
	if err != nil {
		if errors.Is(err, engine.ErrBracketIncompatible) {
			return &GenerateResult{Status: StatusBracketIncompatible}, nil
		}
		return nil, err
	}
	matches := engine.PairSeeds(seeds, 1, s.now())
	if err := s.persist(ctx, code, t, matches, false, models.StageKnockout); err != nil {
		return nil, err
	}
	return &GenerateResult{Status: StatusKnockoutGenerated, Created: len(matches)}, nil
}

func (s *fixtureService) generateLeague(ctx context.Context, code string, t *models.Tournament, eligible map[string]models.Team, regenerate bool) (*GenerateResult, error) {
	params := engine.RoundRobinParams{
		Entrants:   engine.Roster(eligible),
		Encounters: t.Config.EncounterCount(),
		Stage:      models.StageLeague,
		Now:        s.now(),
	}
	if !regenerate {
		// Additive run: only schedule each pair's shortfall.
		params.Existing = engine.CountExistingPairs(t.Matches, models.StageLeague, "")
	}
	matches, err := s.rr.Generate(params)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &GenerateResult{Status: StatusNothingToGenerate}, nil
	}
	if err := s.persist(ctx, code, t, matches, regenerate, models.StageLeague); err != nil {
		return nil, err
	}
	return &GenerateResult{Status: StatusLeagueGenerated, Created: len(matches)}, nil
}

func (s *fixtureService) AdvanceKnockout(ctx context.Context, code string) (*GenerateResult, error) {
	var t models.Tournament
	if err := s.store.Read(ctx, store.TournamentPath(code), &t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("read tournament %s: %w", code, err)
	}

	next, err := engine.NextKnockoutRound(t.Matches, s.now())
	switch {
	case errors.Is(err, engine.ErrRoundUnresolved):
		return &GenerateResult{Status: StatusKnockoutRoundOpen}, nil
	case errors.Is(err, engine.ErrBracketComplete):
		return &GenerateResult{Status: StatusBracketComplete}, nil
	case err != nil:
		return nil, err
	}

	if err := s.persist(ctx, code, &t, next, false); err != nil {
		return nil, err
	}
	s.logger.Info("knockout round advanced",
		slog.String("tournament", code),
		slog.Int("created", len(next)))
	s.notify(ctx, code)
	return &GenerateResult{Status: StatusNextRoundGenerated, Created: len(next)}, nil
}

// ensureGroups assigns group labels to any eligible participant that lacks
// one: max(2, ceil(n/4)) groups dealt A, B, C... in roster order, persisted
// per participant before scheduling. Already-assigned participants keep
// their label.
func (s *fixtureService) ensureGroups(ctx context.Context, code string, eligible map[string]models.Team) (map[string]models.Team, error) {
	roster := engine.Roster(eligible)
	unassigned := make([]engine.Entrant, 0, len(roster))
	for _, e := range roster {
		if e.Group == "" {
			unassigned = append(unassigned, e)
		}
	}
	out := make(map[string]models.Team, len(eligible))
	for id, tm := range eligible {
		out[id] = tm
	}
	if len(unassigned) == 0 {
		return out, nil
	}

	groupCount := int(math.Ceil(float64(len(roster)) / 4))
	if groupCount < 2 {
		groupCount = 2
	}
	for i, e := range unassigned {
		label := string(rune('A' + i%groupCount))
		if err := s.store.Patch(ctx, store.TeamPath(code, e.ID), map[string]interface{}{
			"group": label,
		}); err != nil {
			return nil, fmt.Errorf("assign group for team %s: %w", e.ID, err)
		}
		tm := out[e.ID]
		tm.Group = label
		out[e.ID] = tm
	}
	return out, nil
}

// persist writes the updated match collection in one store call. A
// destructive run keeps every fixture outside clearStages and replaces the
// rest; an additive run merges on top of what exists.
func (s *fixtureService) persist(ctx context.Context, code string, t *models.Tournament, created []models.Match, destructive bool, clearStages ...models.Stage) error {
	merged := make(map[string]models.Match, len(t.Matches)+len(created))
	for id, m := range t.Matches {
		if destructive && stageIn(m.Stage, clearStages) {
			continue
		}
		merged[id] = m
	}
	for _, m := range created {
		merged[uuid.NewString()] = m
	}
	if err := s.store.Write(ctx, store.MatchesPath(code), merged); err != nil {
		return fmt.Errorf("write matches for %s: %w", code, err)
	}
	t.Matches = merged
	return nil
}

func stageIn(stage models.Stage, stages []models.Stage) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

// notify re-reads persisted state and pushes it to live viewers, so clients
// render what the store actually holds rather than what this process thinks
// it wrote.
func (s *fixtureService) notify(ctx context.Context, code string) {
	if s.hub == nil {
		return
	}
	var t models.Tournament
	if err := s.store.Read(ctx, store.TournamentPath(code), &t); err != nil {
		s.logger.Warn("re-read after generation failed",
			slog.String("tournament", code),
			slog.Any("error", err))
		return
	}
	s.hub.BroadcastToRoom(code, live.Message{
		Type:    live.TypeFixturesUpdated,
		RoomID:  code,
		Payload: t,
	})
}
