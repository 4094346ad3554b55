package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matchday/tournament-tracker/engine"
	"github.com/matchday/tournament-tracker/live"
	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/store"
)

// SubmitResultInput is a structured result entry: team totals plus optional
// per-player lines for either side.
type SubmitResultInput struct {
	TeamAScore int                 `json:"teamAScore"`
	TeamBScore int                 `json:"teamBScore"`
	APlayers   []models.PlayerLine `json:"aPlayers,omitempty"`
	BPlayers   []models.PlayerLine `json:"bPlayers,omitempty"`
	// UseSummed resolves an entered-vs-summed conflict in favour of the
	// player totals instead of rejecting the submission.
	UseSummed bool `json:"useSummed,omitempty"`
}

// SubmitResultOutput reports what was stored, plus the discrepancy detail
// when the submission conflicted.
type SubmitResultOutput struct {
	Match       models.Match             `json:"match"`
	Discrepancy engine.DiscrepancyReport `json:"discrepancy"`
}

type MatchService interface {
	// SubmitResult validates, reconciles and stores one match result. A
	// conflicting submission without UseSummed is rejected with
	// ErrScoreConflict and the report attached to the output.
	SubmitResult(ctx context.Context, code, matchID string, in SubmitResultInput) (*SubmitResultOutput, error)
	Get(ctx context.Context, code, matchID string) (*models.Match, error)
	List(ctx context.Context, code string, stage models.Stage) (map[string]models.Match, error)
}

type matchService struct {
	store  store.Store
	hub    *live.Hub
	logger *slog.Logger
	now    func() int64
}

func NewMatchService(st store.Store, hub *live.Hub, logger *slog.Logger) MatchService {
	return &matchService{
		store:  st,
		hub:    hub,
		logger: logger,
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *matchService) Get(ctx context.Context, code, matchID string) (*models.Match, error) {
	var m models.Match
	if err := s.store.Read(ctx, store.MatchPath(code, matchID), &m); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("read match %s/%s: %w", code, matchID, err)
	}
	return &m, nil
}

func (s *matchService) List(ctx context.Context, code string, stage models.Stage) (map[string]models.Match, error) {
	matches := make(map[string]models.Match)
	err := s.store.Read(ctx, store.MatchesPath(code), &matches)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]models.Match{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read matches for %s: %w", code, err)
	}
	if stage == "" {
		return matches, nil
	}
	scoped := make(map[string]models.Match)
	for id, m := range matches {
		if m.Stage == stage {
			scoped[id] = m
		}
	}
	return scoped, nil
}

func (s *matchService) SubmitResult(ctx context.Context, code, matchID string, in SubmitResultInput) (*SubmitResultOutput, error) {
	m, err := s.Get(ctx, code, matchID)
	if err != nil {
		return nil, err
	}
	if m.Bye {
		return nil, ErrByeNotScorable
	}
	if in.TeamAScore < 0 || in.TeamBScore < 0 {
		return nil, fmt.Errorf("%w: score must not be negative", ErrValidationFailed)
	}
	for _, l := range append(append([]models.PlayerLine(nil), in.APlayers...), in.BPlayers...) {
		if l.Goals < 0 || l.Assists < 0 || l.Saves < 0 {
			return nil, fmt.Errorf("%w: player stats must not be negative", ErrValidationFailed)
		}
	}

	line, report := engine.ReconcileResult(engine.ResultSubmission{
		A:         engine.SideSubmission{Score: in.TeamAScore, Players: in.APlayers},
		B:         engine.SideSubmission{Score: in.TeamBScore, Players: in.BPlayers},
		UseSummed: in.UseSummed,
	})
	if !report.Clean() && !in.UseSummed {
		return &SubmitResultOutput{Match: *m, Discrepancy: report}, ErrScoreConflict
	}

	now := s.now()
	if err := s.store.Patch(ctx, store.MatchPath(code, matchID), map[string]interface{}{
		"scores":    line,
		"updatedAt": now,
	}); err != nil {
		return nil, fmt.Errorf("patch match %s/%s: %w", code, matchID, err)
	}
	m.Scores = &line
	m.UpdatedAt = now

	s.logger.Info("result recorded",
		slog.String("tournament", code),
		slog.String("match", matchID),
		slog.Int("scoreA", line.A),
		slog.Int("scoreB", line.B))

	if s.hub != nil {
		s.hub.BroadcastToRoom(code, live.Message{
			Type:    live.TypeResultRecorded,
			RoomID:  code,
			Payload: map[string]interface{}{"matchId": matchID, "match": m},
		})
	}
	return &SubmitResultOutput{Match: *m, Discrepancy: report}, nil
}
