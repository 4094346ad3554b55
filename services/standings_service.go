package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matchday/tournament-tracker/engine"
	"github.com/matchday/tournament-tracker/models"
)

// StandingsView is everything a tournament table page needs, computed fresh
// from the current match set on each request.
type StandingsView struct {
	Overall     []models.StandingsRow            `json:"overall,omitempty"`
	Groups      map[string][]models.StandingsRow `json:"groups,omitempty"`
	Americano   []models.AmericanoRow            `json:"americano,omitempty"`
	Elimination *models.EliminationSummary       `json:"elimination,omitempty"`
}

type StandingsService interface {
	View(ctx context.Context, code string) (*StandingsView, error)
	GroupStandings(ctx context.Context, code, group string) ([]models.StandingsRow, error)
}

type standingsService struct {
	tournaments TournamentService
}

func NewStandingsService(tournaments TournamentService) StandingsService {
	return &standingsService{tournaments: tournaments}
}

// View derives the format-appropriate tables. The per-group tables are
// independent, so they compute in parallel for large tournaments.
func (s *standingsService) View(ctx context.Context, code string) (*StandingsView, error) {
	t, err := s.tournaments.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	eligible := t.SchedulableTeams()
	view := &StandingsView{}

	switch t.Config.Format {
	case models.FormatAmericano:
		view.Americano = engine.AmericanoTable(t.Matches, eligible)

	case models.FormatKnockout:
		summary := engine.BuildEliminationSummary(t.Matches, eligible)
		view.Elimination = &summary

	case models.FormatGroupsKnockout:
		byGroup := engine.GroupTeams(eligible)
		keys := engine.GroupKeys(byGroup)
		groupMatches := t.MatchesByStage(models.StageGroup)

		view.Groups = make(map[string][]models.StandingsRow, len(keys))
		var mu sync.Mutex
		g, _ := errgroup.WithContext(ctx)
		for _, key := range keys {
			key := key
			g.Go(func() error {
				scoped := make(map[string]models.Match)
				for id, m := range groupMatches {
					if m.Group == key {
						scoped[id] = m
					}
				}
				rows := engine.CalcStandings(scoped, byGroup[key])
				mu.Lock()
				view.Groups[key] = rows
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if t.HasStage(models.StageKnockout) {
			summary := engine.BuildEliminationSummary(t.Matches, eligible)
			view.Elimination = &summary
		}

	default:
		view.Overall = engine.CalcStandings(t.MatchesByStage(models.StageLeague), eligible)
	}
	return view, nil
}

func (s *standingsService) GroupStandings(ctx context.Context, code, group string) ([]models.StandingsRow, error) {
	t, err := s.tournaments.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	byGroup := engine.GroupTeams(t.SchedulableTeams())
	teams, ok := byGroup[group]
	if !ok {
		return nil, fmt.Errorf("%w: group %q", ErrNotFound, group)
	}
	scoped := make(map[string]models.Match)
	for id, m := range t.MatchesByStage(models.StageGroup) {
		if m.Group == group {
			scoped[id] = m
		}
	}
	return engine.CalcStandings(scoped, teams), nil
}
