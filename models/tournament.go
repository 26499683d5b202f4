package models

import "time"

// TournamentStatus mirrors the status strings reported by the results
// provider, normalized to lower case.
type TournamentStatus string

const (
	TournamentScheduled  TournamentStatus = "scheduled"
	TournamentInProgress TournamentStatus = "in progress"
	TournamentOfficial   TournamentStatus = "official"
	TournamentSuspended  TournamentStatus = "suspended"
)

// Tournament represents one competition instance. Reference data: created and
// refreshed from provider data, never edited by pool admins directly.
type Tournament struct {
	ID           int              `json:"id" db:"id"`
	Year         int              `json:"year" db:"year"`
	ExternalID   string           `json:"external_id" db:"external_id"`
	OrgID        string           `json:"org_id" db:"org_id"`
	Name         string           `json:"name" db:"name"`
	StartDate    time.Time        `json:"start_date" db:"start_date"`
	EndDate      time.Time        `json:"end_date" db:"end_date"`
	Status       TournamentStatus `json:"status" db:"status"`
	CurrentRound int              `json:"current_round" db:"current_round"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}
