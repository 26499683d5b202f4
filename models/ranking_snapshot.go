package models

import "time"

// RankingSnapshot is one immutable standing record: the position and total of
// one entry at one instant. Snapshots are only ever appended, never edited; a
// corrected recalculation produces new snapshots instead of rewriting history.
type RankingSnapshot struct {
	ID                 int       `json:"id" db:"id"`
	TournamentID       int       `json:"tournament_id" db:"tournament_id"`
	EntryID            int       `json:"entry_id" db:"entry_id"`
	RoundID            int       `json:"round_id" db:"round_id"`
	Position           int       `json:"position" db:"position"`
	TotalPoints        float64   `json:"total_points" db:"total_points"`
	PointsBehindLeader float64   `json:"points_behind_leader" db:"points_behind_leader"`
	RecordedAt         time.Time `json:"recorded_at" db:"recorded_at"`
}
