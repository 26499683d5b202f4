package models

import "time"

// SlotScore records how one roster slot scored in a round.
type SlotScore struct {
	Slot     int     `json:"slot"`
	PlayerID string  `json:"player_id"`
	Position string  `json:"position,omitempty"`
	Status   string  `json:"status,omitempty"`
	Points   float64 `json:"points"`
}

// BonusLine records one applied bonus award.
type BonusLine struct {
	AwardID  int       `json:"award_id"`
	PlayerID string    `json:"player_id,omitempty"`
	Kind     BonusKind `json:"kind"`
	Points   float64   `json:"points"`
}

// ScoreBreakdown is the audit payload stored with every DailyScore. Slots are
// always exactly the six effective roster slots in order.
type ScoreBreakdown struct {
	Slots   []SlotScore `json:"slots"`
	Bonuses []BonusLine `json:"bonuses"`
}

// DailyScore is the calculated score of one entry for one round. Recomputing
// the same (entry, round) replaces the row; it never accumulates.
type DailyScore struct {
	ID           int            `json:"id" db:"id"`
	EntryID      int            `json:"entry_id" db:"entry_id"`
	RoundID      int            `json:"round_id" db:"round_id"`
	BasePoints   float64        `json:"base_points" db:"base_points"`
	BonusPoints  float64        `json:"bonus_points" db:"bonus_points"`
	TotalPoints  float64        `json:"total_points" db:"total_points"`
	Breakdown    ScoreBreakdown `json:"breakdown" db:"breakdown"`
	CalculatedAt time.Time      `json:"calculated_at" db:"calculated_at"`
}
