package services

import (
	"context"
	"sort"

	"github.com/matchday/tournament-tracker/models"
)

type StatsService interface {
	// PlayerStats aggregates goals, assists and saves across every recorded
	// result of a tournament, ranked by goals.
	PlayerStats(ctx context.Context, code string) ([]models.PlayerStats, error)
}

type statsService struct {
	tournaments TournamentService
}

func NewStatsService(tournaments TournamentService) StatsService {
	return &statsService{tournaments: tournaments}
}

func (s *statsService) PlayerStats(ctx context.Context, code string) ([]models.PlayerStats, error) {
	t, err := s.tournaments.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	byName := map[string]*models.PlayerStats{}
	add := func(name string, goals, assists, saves int) {
		if name == "" {
			return
		}
		st := byName[name]
		if st == nil {
			st = &models.PlayerStats{Name: name}
			byName[name] = st
		}
		st.Goals += goals
		st.Assists += assists
		st.Saves += saves
	}

	for _, m := range t.Matches {
		if !m.Played() {
			continue
		}
		lines := append(append([]models.PlayerLine(nil), m.Scores.APlayers...), m.Scores.BPlayers...)
		if len(lines) > 0 {
			for _, l := range lines {
				add(l.Name, l.Goals, l.Assists, l.Saves)
			}
			continue
		}
		// Older results carry only one-name-per-goal scorer lists.
		for _, name := range m.Scores.AScorers {
			add(name, 1, 0, 0)
		}
		for _, name := range m.Scores.BScorers {
			add(name, 1, 0, 0)
		}
	}

	out := make([]models.PlayerStats, 0, len(byName))
	for _, st := range byName {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		if out[i].Assists != out[j].Assists {
			return out[i].Assists > out[j].Assists
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
