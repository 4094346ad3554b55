package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/storage"
	"github.com/matchday/tournament-tracker/store"
)

// PersonalTeam is a reusable roster a user keeps per sport, outside any
// tournament. Joining with one copies its name into the join request.
type PersonalTeam struct {
	Name      string   `json:"name"`
	Players   []string `json:"players,omitempty"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt,omitempty"`
}

type TeamService interface {
	CreatePersonal(ctx context.Context, uid, sport, name string, players []string) (string, error)
	ListPersonal(ctx context.Context, uid, sport string) (map[string]PersonalTeam, error)
	UpdatePersonal(ctx context.Context, uid, sport, teamID string, fields map[string]interface{}) error
	DeletePersonal(ctx context.Context, uid, sport, teamID string) error

	// UploadLogo stores a logo blob and records its key on the tournament
	// team. Only the tournament admin or the team's requester may set it.
	UploadLogo(ctx context.Context, code, uid, teamID, contentType string, r io.Reader) (string, error)
}

type teamService struct {
	store    store.Store
	uploader storage.FileUploader
	logger   *slog.Logger
	now      func() int64
}

func NewTeamService(st store.Store, uploader storage.FileUploader, logger *slog.Logger) TeamService {
	return &teamService{
		store:    st,
		uploader: uploader,
		logger:   logger,
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *teamService) CreatePersonal(ctx context.Context, uid, sport, name string, players []string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrTeamNameRequired
	}
	team := PersonalTeam{
		Name:      strings.TrimSpace(name),
		Players:   players,
		CreatedAt: s.now(),
	}
	id, err := s.store.Append(ctx, store.PersonalTeamsPath(uid, sport), team)
	if err != nil {
		return "", fmt.Errorf("append personal team for %s: %w", uid, err)
	}
	return id, nil
}

func (s *teamService) ListPersonal(ctx context.Context, uid, sport string) (map[string]PersonalTeam, error) {
	teams := make(map[string]PersonalTeam)
	err := s.store.Read(ctx, store.PersonalTeamsPath(uid, sport), &teams)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]PersonalTeam{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read personal teams for %s: %w", uid, err)
	}
	return teams, nil
}

func (s *teamService) UpdatePersonal(ctx context.Context, uid, sport, teamID string, fields map[string]interface{}) error {
	allowed := map[string]bool{"name": true, "players": true}
	patch := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if allowed[k] {
			patch[k] = v
		}
	}
	if len(patch) == 0 {
		return ErrValidationFailed
	}
	patch["updatedAt"] = s.now()
	path := store.PersonalTeamsPath(uid, sport) + "/" + teamID
	if err := s.store.Patch(ctx, path, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("patch personal team %s: %w", teamID, err)
	}
	return nil
}

func (s *teamService) DeletePersonal(ctx context.Context, uid, sport, teamID string) error {
	path := store.PersonalTeamsPath(uid, sport) + "/" + teamID
	if err := s.store.Delete(ctx, path); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("delete personal team %s: %w", teamID, err)
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, code, uid, teamID, contentType string, r io.Reader) (string, error) {
	if s.uploader == nil {
		return "", ErrUploadsDisabled
	}
	var t models.Tournament
	if err := s.store.Read(ctx, store.TournamentPath(code), &t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrTournamentNotFound
		}
		return "", fmt.Errorf("read tournament %s: %w", code, err)
	}
	team, ok := t.Teams[teamID]
	if !ok {
		return "", ErrTeamNotFound
	}
	if t.Admin != uid && team.RequesterUID != uid {
		return "", ErrForbiddenOperation
	}

	key := fmt.Sprintf("logos/%s/%s/%s", code, teamID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload logo for %s/%s: %w", code, teamID, err)
	}
	if err := s.store.Patch(ctx, store.TeamPath(code, teamID), map[string]interface{}{
		"logoKey": result.Key,
	}); err != nil {
		return "", fmt.Errorf("record logo key for %s/%s: %w", code, teamID, err)
	}

	// Old logos are unreachable once the key is replaced; drop the blob.
	if team.LogoKey != "" && team.LogoKey != result.Key {
		if err := s.uploader.Delete(ctx, team.LogoKey); err != nil {
			s.logger.Warn("stale logo cleanup failed",
				slog.String("key", team.LogoKey),
				slog.Any("error", err))
		}
	}
	return s.uploader.GetPublicURL(result.Key), nil
}
