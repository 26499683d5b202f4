package models

import (
	"time"

	"github.com/fairwayfive/golf-pool/golfdata"
)

// ResultSnapshot is the raw provider payload captured by one sync cycle.
// Scorecards are keyed by player ID. Scoring always reads from a snapshot, so
// a calculation can be replayed against exactly the data it originally saw.
type ResultSnapshot struct {
	ID           int                             `json:"id" db:"id"`
	TournamentID int                             `json:"tournament_id" db:"tournament_id"`
	RoundID      int                             `json:"round_id" db:"round_id"`
	Leaderboard  golfdata.Leaderboard            `json:"leaderboard" db:"leaderboard"`
	Scorecards   map[string][]golfdata.Scorecard `json:"scorecards" db:"scorecards"`
	FetchedAt    time.Time                       `json:"fetched_at" db:"fetched_at"`
}
