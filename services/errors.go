package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Validation and business rules
	ErrValidationFailed  = errors.New("validation failed")
	ErrInvalidRound      = errors.New("round must be between 1 and 4")
	ErrInvalidBonusKind  = errors.New("unknown bonus kind")
	ErrInvalidRebuy      = errors.New("rebuy original player is not on the entry roster")
	ErrDuplicateRoster   = errors.New("entry roster contains duplicate players")
	ErrIncompleteRoster  = errors.New("entry roster must contain exactly six players")
	ErrInvalidJobConfig  = errors.New("invalid scheduler configuration")
	ErrJobAlreadyRunning = errors.New("scheduler already running for this tournament")
	ErrJobNotRunning     = errors.New("no running scheduler for this tournament")

	// Not found
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAwardNotFound       = errors.New("bonus award not found")
	ErrNoResultSnapshot    = errors.New("no result snapshot available for this round")

	// Conflicts and concurrency
	ErrTournamentConflict = errors.New("tournament already exists for this year")
	ErrSyncInProgress     = errors.New("a recalculation is already in progress for this tournament")

	// Upstream and auth
	ErrUpstreamUnavailable = errors.New("results provider unavailable")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
