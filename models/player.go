package models

import "time"

// Player is cached reference data for a real tour golfer, keyed by the
// provider's stable player identifier.
type Player struct {
	ID         int       `json:"id" db:"id"`
	ExternalID string    `json:"external_id" db:"external_id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	FullName   string    `json:"full_name" db:"full_name"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
