package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/store"
	"github.com/matchday/tournament-tracker/utils"
)

const minPasswordLength = 8

type RegisterInput struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult carries the signed token and the profile it belongs to.
type AuthResult struct {
	UID     string             `json:"uid"`
	Token   string             `json:"token"`
	Profile models.UserProfile `json:"profile"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Profile(ctx context.Context, uid string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, uid string, fields map[string]interface{}) error
}

type authService struct {
	store     store.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthService(st store.Store, jwtSecret []byte, tokenTTL time.Duration, logger *slog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		store:     st,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrValidationFailed)
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	emailPath := store.EmailIndexPath(utils.EmailKey(email))
	var taken string
	err := s.store.Read(ctx, emailPath, &taken)
	if err == nil {
		return nil, ErrEmailConflict
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("probe email index: %w", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	uid := uuid.NewString()
	profile := models.UserProfile{
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UnixMilli(),
	}
	if profile.DisplayName == "" {
		profile.DisplayName = strings.Split(email, "@")[0]
	}
	if err := s.store.Write(ctx, store.UserProfilePath(uid), profile); err != nil {
		return nil, fmt.Errorf("write profile: %w", err)
	}
	if err := s.store.Write(ctx, emailPath, uid); err != nil {
		return nil, fmt.Errorf("write email index: %w", err)
	}

	token, err := s.issueToken(uid)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", slog.String("uid", uid))
	profile.PasswordHash = ""
	return &AuthResult{UID: uid, Token: token, Profile: profile}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	emailPath := store.EmailIndexPath(utils.EmailKey(in.Email))
	var uid string
	err := s.store.Read(ctx, emailPath, &uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("read email index: %w", err)
	}

	var profile models.UserProfile
	if err := s.store.Read(ctx, store.UserProfilePath(uid), &profile); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("read profile %s: %w", uid, err)
	}
	if !utils.CheckPasswordHash(in.Password, profile.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(uid)
	if err != nil {
		return nil, err
	}
	profile.PasswordHash = ""
	return &AuthResult{UID: uid, Token: token, Profile: profile}, nil
}

func (s *authService) Profile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.store.Read(ctx, store.UserProfilePath(uid), &profile); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("read profile %s: %w", uid, err)
	}
	profile.PasswordHash = ""
	return &profile, nil
}

func (s *authService) UpdateProfile(ctx context.Context, uid string, fields map[string]interface{}) error {
	allowed := map[string]bool{"displayName": true}
	patch := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if allowed[k] {
			patch[k] = v
		}
	}
	if len(patch) == 0 {
		return ErrValidationFailed
	}
	if err := s.store.Patch(ctx, store.UserProfilePath(uid), patch); err != nil {
		return fmt.Errorf("patch profile %s: %w", uid, err)
	}
	return nil
}

func (s *authService) issueToken(uid string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": uid,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
