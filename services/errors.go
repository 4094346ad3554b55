package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors.
	ErrValidationFailed       = errors.New("validation failed")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrPlayerNameRequired     = errors.New("player name is required")
	ErrUnknownFormat          = errors.New("unknown tournament format")
	ErrUnknownSport           = errors.New("unknown sport")
	ErrByeNotScorable         = errors.New("bye fixtures cannot take a result")
	ErrScoreConflict          = errors.New("entered score conflicts with player totals")
	ErrJoinAlreadyRequested   = errors.New("join request already exists for this user")

	// Conflicts.
	ErrEmailConflict = errors.New("email address is already in use")
	ErrCodeExhausted = errors.New("could not allocate a unique tournament code")

	// Deployment-dependent features.
	ErrUploadsDisabled = errors.New("file uploads are not configured")

	// Authentication and authorization.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrAdminOnly            = errors.New("only the tournament admin can perform this action")

	// Entity lookups.
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
)
