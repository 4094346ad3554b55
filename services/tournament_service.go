package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/store"
	"github.com/matchday/tournament-tracker/utils"
)

// Index kinds under users/{uid}/tournaments.
const (
	IndexCreated    = "created"
	IndexJoined     = "joined"
	IndexSpectating = "spectating"
)

const codeAttempts = 5

// CreateTournamentInput is everything the admin supplies at creation.
type CreateTournamentInput struct {
	Sport           string
	Format          models.Format
	Name            string
	Encounters      int
	AdvancePerGroup *int
	PointsToWin     *int
	IsPublic        bool
	Rules           string
}

// JoinInput is a join request from a user wanting to enter a tournament.
type JoinInput struct {
	TeamName       string
	PersonalTeamID string
}

type TournamentService interface {
	Create(ctx context.Context, adminUID string, in CreateTournamentInput) (string, *models.Tournament, error)
	Get(ctx context.Context, code string) (*models.Tournament, error)
	UpdateConfig(ctx context.Context, code, uid string, fields map[string]interface{}) error
	Join(ctx context.Context, code, uid, displayName string, in JoinInput) (string, error)
	ApproveTeam(ctx context.Context, code, adminUID, teamID string) error
	RejectTeam(ctx context.Context, code, adminUID, teamID string) error
	Delete(ctx context.Context, code, uid string) error
	ListUserTournaments(ctx context.Context, uid, kind string) (map[string]models.TournamentRef, error)
	Spectate(ctx context.Context, code, uid string) error
}

type tournamentService struct {
	store   store.Store
	catalog *models.Catalog
	logger  *slog.Logger
	now     func() int64
}

func NewTournamentService(st store.Store, catalog *models.Catalog, logger *slog.Logger) TournamentService {
	return &tournamentService{
		store:   st,
		catalog: catalog,
		logger:  logger,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *tournamentService) Create(ctx context.Context, adminUID string, in CreateTournamentInput) (string, *models.Tournament, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", nil, ErrTournamentNameRequired
	}
	switch in.Format {
	case models.FormatLeague, models.FormatGroupsKnockout, models.FormatKnockout, models.FormatAmericano:
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownFormat, in.Format)
	}
	if s.catalog != nil {
		if _, ok := s.catalog.Sports[in.Sport]; !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrUnknownSport, in.Sport)
		}
	}

	code, err := s.allocateCode(ctx)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	t := models.Tournament{
		Config: models.TournamentConfig{
			Sport:           in.Sport,
			Format:          in.Format,
			Name:            strings.TrimSpace(in.Name),
			Encounters:      in.Encounters,
			AdvancePerGroup: in.AdvancePerGroup,
			PointsToWin:     in.PointsToWin,
			IsPublic:        in.IsPublic,
			Rules:           in.Rules,
			CreatedAt:       now,
		},
		Admin: adminUID,
	}
	if err := s.store.Write(ctx, store.TournamentPath(code), t); err != nil {
		return "", nil, fmt.Errorf("write tournament %s: %w", code, err)
	}
	ref := models.TournamentRef{
		Code:      code,
		Sport:     in.Sport,
		Format:    in.Format,
		Name:      t.Config.Name,
		CreatedAt: now,
	}
	if err := s.store.Write(ctx, store.UserTournamentRefPath(adminUID, IndexCreated, code), ref); err != nil {
		return "", nil, fmt.Errorf("index tournament %s for admin: %w", code, err)
	}

	s.logger.Info("tournament created",
		slog.String("code", code),
		slog.String("sport", in.Sport),
		slog.String("format", string(in.Format)),
		slog.String("admin", adminUID))
	return code, &t, nil
}

// allocateCode draws share codes until one is unused. The space is 32^6, so
// collisions are rare; a handful of attempts is plenty.
func (s *tournamentService) allocateCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := utils.GenerateCode()
		if err != nil {
			return "", err
		}
		var existing models.Tournament
		err = s.store.Read(ctx, store.TournamentPath(code), &existing)
		if errors.Is(err, store.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe code %s: %w", code, err)
		}
	}
	return "", ErrCodeExhausted
}

func (s *tournamentService) Get(ctx context.Context, code string) (*models.Tournament, error) {
	var t models.Tournament
	if err := s.store.Read(ctx, store.TournamentPath(code), &t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("read tournament %s: %w", code, err)
	}
	return &t, nil
}

// UpdateConfig patches admin-editable config fields. Sport and format are
// fixed after creation; scheduling already derives from them.
func (s *tournamentService) UpdateConfig(ctx context.Context, code, uid string, fields map[string]interface{}) error {
	t, err := s.Get(ctx, code)
	if err != nil {
		return err
	}
	if t.Admin != uid {
		return ErrAdminOnly
	}
	allowed := map[string]bool{
		"name": true, "encounters": true, "advancePerGroup": true,
		"pointsToWin": true, "isPublic": true, "rules": true,
	}
	patch := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if allowed[k] {
			patch[k] = v
		}
	}
	if len(patch) == 0 {
		return ErrValidationFailed
	}
	if err := s.store.Patch(ctx, store.TournamentConfigPath(code), patch); err != nil {
		return fmt.Errorf("patch config for %s: %w", code, err)
	}
	return nil
}

// Join records a pending participant and indexes the tournament for the
// requesting user. The admin approves or rejects it later.
func (s *tournamentService) Join(ctx context.Context, code, uid, displayName string, in JoinInput) (string, error) {
	if strings.TrimSpace(in.TeamName) == "" {
		return "", ErrTeamNameRequired
	}
	t, err := s.Get(ctx, code)
	if err != nil {
		return "", err
	}
	for _, tm := range t.Teams {
		if tm.RequesterUID == uid && !tm.Rejected {
			return "", ErrJoinAlreadyRequested
		}
	}

	now := s.now()
	teamID := uuid.NewString()
	team := models.Team{
		Name:           strings.TrimSpace(in.TeamName),
		RequesterUID:   uid,
		RequesterName:  displayName,
		PersonalTeamID: in.PersonalTeamID,
		CreatedAt:      now,
	}
	if err := s.store.Write(ctx, store.TeamPath(code, teamID), team); err != nil {
		return "", fmt.Errorf("write join request for %s: %w", code, err)
	}
	ref := models.TournamentRef{
		Code:        code,
		Sport:       t.Config.Sport,
		Format:      t.Config.Format,
		Name:        t.Config.Name,
		TeamName:    team.Name,
		Pending:     true,
		RequestedAt: now,
	}
	if err := s.store.Write(ctx, store.UserTournamentRefPath(uid, IndexJoined, code), ref); err != nil {
		return "", fmt.Errorf("index joined tournament %s: %w", code, err)
	}

	s.logger.Info("join requested",
		slog.String("code", code),
		slog.String("team", team.Name),
		slog.String("user", uid))
	return teamID, nil
}

func (s *tournamentService) ApproveTeam(ctx context.Context, code, adminUID, teamID string) error {
	return s.decideTeam(ctx, code, adminUID, teamID, true)
}

func (s *tournamentService) RejectTeam(ctx context.Context, code, adminUID, teamID string) error {
	return s.decideTeam(ctx, code, adminUID, teamID, false)
}

func (s *tournamentService) decideTeam(ctx context.Context, code, adminUID, teamID string, approve bool) error {
	t, err := s.Get(ctx, code)
	if err != nil {
		return err
	}
	if t.Admin != adminUID {
		return ErrAdminOnly
	}
	team, ok := t.Teams[teamID]
	if !ok {
		return ErrTeamNotFound
	}

	now := s.now()
	patch := map[string]interface{}{}
	refPatch := map[string]interface{}{"pending": false}
	if approve {
		patch["approved"] = true
		patch["rejected"] = false
		patch["approvedAt"] = now
		refPatch["approvedAt"] = now
	} else {
		patch["approved"] = false
		patch["rejected"] = true
		patch["rejectedAt"] = now
		refPatch["rejected"] = true
		refPatch["rejectedAt"] = now
	}
	if err := s.store.Patch(ctx, store.TeamPath(code, teamID), patch); err != nil {
		return fmt.Errorf("patch team %s in %s: %w", teamID, code, err)
	}
	if team.RequesterUID != "" {
		if err := s.store.Patch(ctx, store.UserTournamentRefPath(team.RequesterUID, IndexJoined, code), refPatch); err != nil {
			// The participant record is authoritative; a stale index entry
			// only affects the requester's dashboard.
			s.logger.Warn("join index update failed",
				slog.String("code", code),
				slog.String("user", team.RequesterUID),
				slog.Any("error", err))
		}
	}
	return nil
}

// Delete removes the tournament document and tombstones every participant's
// index entry so their dashboards can show what happened.
func (s *tournamentService) Delete(ctx context.Context, code, uid string) error {
	t, err := s.Get(ctx, code)
	if err != nil {
		return err
	}
	if t.Admin != uid {
		return ErrAdminOnly
	}

	now := s.now()
	for _, tm := range t.Teams {
		if tm.RequesterUID == "" {
			continue
		}
		if err := s.store.Patch(ctx, store.UserTournamentRefPath(tm.RequesterUID, IndexJoined, code), map[string]interface{}{
			"deleted":   true,
			"deletedAt": now,
		}); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("tombstone failed",
				slog.String("code", code),
				slog.String("user", tm.RequesterUID),
				slog.Any("error", err))
		}
	}
	if err := s.store.Delete(ctx, store.UserTournamentRefPath(uid, IndexCreated, code)); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("drop creator index for %s: %w", code, err)
	}
	if err := s.store.Delete(ctx, store.TournamentPath(code)); err != nil {
		return fmt.Errorf("delete tournament %s: %w", code, err)
	}
	s.logger.Info("tournament deleted", slog.String("code", code), slog.String("admin", uid))
	return nil
}

func (s *tournamentService) ListUserTournaments(ctx context.Context, uid, kind string) (map[string]models.TournamentRef, error) {
	switch kind {
	case IndexCreated, IndexJoined, IndexSpectating:
	default:
		return nil, fmt.Errorf("%w: unknown index %q", ErrValidationFailed, kind)
	}
	refs := make(map[string]models.TournamentRef)
	err := s.store.Read(ctx, store.UserTournamentsPath(uid, kind), &refs)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]models.TournamentRef{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s tournaments for %s: %w", kind, uid, err)
	}
	return refs, nil
}

// Spectate bookmarks a tournament on the user's dashboard without joining.
func (s *tournamentService) Spectate(ctx context.Context, code, uid string) error {
	t, err := s.Get(ctx, code)
	if err != nil {
		return err
	}
	ref := models.TournamentRef{
		Code:      code,
		Sport:     t.Config.Sport,
		Format:    t.Config.Format,
		Name:      t.Config.Name,
		StartedAt: s.now(),
	}
	if err := s.store.Write(ctx, store.UserTournamentRefPath(uid, IndexSpectating, code), ref); err != nil {
		return fmt.Errorf("index spectated tournament %s: %w", code, err)
	}
	return nil
}
