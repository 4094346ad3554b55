package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/store"
)

// PlayerInput is the editable part of a catalog player.
type PlayerInput struct {
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Age     *int   `json:"age,omitempty"`
	Contact string `json:"contact,omitempty"`
}

type PlayerService interface {
	Create(ctx context.Context, uid string, in PlayerInput) (string, *models.Player, error)
	Update(ctx context.Context, uid, playerID string, in PlayerInput) error
	Delete(ctx context.Context, uid, playerID string) error
	List(ctx context.Context, uid string) (map[string]models.Player, error)

	// RecordProgress appends an immutable ratings snapshot for a player in
	// one sport. History is append-only; snapshots are never edited.
	RecordProgress(ctx context.Context, uid, sport, playerID string, ratings map[string]int) (*models.ProgressSnapshot, error)
	ProgressHistory(ctx context.Context, uid, sport, playerID string) (map[string]models.ProgressSnapshot, error)
}

type playerService struct {
	store   store.Store
	catalog *models.Catalog
	logger  *slog.Logger
	now     func() int64
}

func NewPlayerService(st store.Store, catalog *models.Catalog, logger *slog.Logger) PlayerService {
	return &playerService{
		store:   st,
		catalog: catalog,
		logger:  logger,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *playerService) Create(ctx context.Context, uid string, in PlayerInput) (string, *models.Player, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", nil, ErrPlayerNameRequired
	}
	p := models.Player{
		Name:      strings.TrimSpace(in.Name),
		Surname:   strings.TrimSpace(in.Surname),
		Age:       in.Age,
		Contact:   strings.TrimSpace(in.Contact),
		CreatedAt: s.now(),
	}
	id, err := s.store.Append(ctx, store.PlayersPath(uid), p)
	if err != nil {
		return "", nil, fmt.Errorf("append player for %s: %w", uid, err)
	}
	return id, &p, nil
}

func (s *playerService) Update(ctx context.Context, uid, playerID string, in PlayerInput) error {
	var existing models.Player
	if err := s.store.Read(ctx, store.PlayerPath(uid, playerID), &existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("read player %s: %w", playerID, err)
	}
	patch := map[string]interface{}{
		"updatedAt": s.now(),
	}
	if strings.TrimSpace(in.Name) != "" {
		patch["name"] = strings.TrimSpace(in.Name)
	}
	if in.Surname != "" {
		patch["surname"] = strings.TrimSpace(in.Surname)
	}
	if in.Age != nil {
		patch["age"] = *in.Age
	}
	if in.Contact != "" {
		patch["contact"] = strings.TrimSpace(in.Contact)
	}
	if err := s.store.Patch(ctx, store.PlayerPath(uid, playerID), patch); err != nil {
		return fmt.Errorf("patch player %s: %w", playerID, err)
	}
	return nil
}

func (s *playerService) Delete(ctx context.Context, uid, playerID string) error {
	if err := s.store.Delete(ctx, store.PlayerPath(uid, playerID)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("delete player %s: %w", playerID, err)
	}
	return nil
}

func (s *playerService) List(ctx context.Context, uid string) (map[string]models.Player, error) {
	players := make(map[string]models.Player)
	err := s.store.Read(ctx, store.PlayersPath(uid), &players)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]models.Player{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read players for %s: %w", uid, err)
	}
	return players, nil
}

func (s *playerService) RecordProgress(ctx context.Context, uid, sport, playerID string, ratings map[string]int) (*models.ProgressSnapshot, error) {
	if s.catalog != nil {
		if _, ok := s.catalog.Sports[sport]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSport, sport)
		}
		for key := range ratings {
			if !contains(s.catalog.Attributes.CoreRatings, key) {
				return nil, fmt.Errorf("%w: unknown rating %q", ErrValidationFailed, key)
			}
		}
	}
	if len(ratings) == 0 {
		return nil, fmt.Errorf("%w: empty ratings", ErrValidationFailed)
	}

	total := 0
	for _, v := range ratings {
		total += v
	}
	snap := models.ProgressSnapshot{
		Ratings: ratings,
		Overall: total / len(ratings),
		At:      s.now(),
	}
	if _, err := s.store.Append(ctx, store.ProgressPath(uid, sport, playerID), snap); err != nil {
		return nil, fmt.Errorf("append progress for %s/%s: %w", sport, playerID, err)
	}
	s.logger.Info("progress recorded",
		slog.String("user", uid),
		slog.String("sport", sport),
		slog.String("player", playerID),
		slog.Int("overall", snap.Overall))
	return &snap, nil
}

func (s *playerService) ProgressHistory(ctx context.Context, uid, sport, playerID string) (map[string]models.ProgressSnapshot, error) {
	history := make(map[string]models.ProgressSnapshot)
	err := s.store.Read(ctx, store.ProgressPath(uid, sport, playerID), &history)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]models.ProgressSnapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress for %s/%s: %w", sport, playerID, err)
	}
	return history, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
