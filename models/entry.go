package models

import "time"

// RosterSize is the number of primary picks in every entry.
const RosterSize = 6

// RebuyReason classifies why a pick was replaced.
type RebuyReason string

const (
	RebuyMissedCut      RebuyReason = "missed_cut"
	RebuyUnderperformer RebuyReason = "underperformer"
)

func (r RebuyReason) Valid() bool {
	return r == RebuyMissedCut || r == RebuyUnderperformer
}

// Rebuy is one append-only substitution event: from EffectiveRound onward the
// original pick is replaced by the replacement player.
type Rebuy struct {
	ID                  int         `json:"id" db:"id"`
	EntryID             int         `json:"entry_id" db:"entry_id"`
	OriginalPlayerID    string      `json:"original_player_id" db:"original_player_id"`
	ReplacementPlayerID string      `json:"replacement_player_id" db:"replacement_player_id"`
	Reason              RebuyReason `json:"reason" db:"reason"`
	EffectiveRound      int         `json:"effective_round" db:"effective_round"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
}

// Entry is a participant's submission: six primary picks plus the rebuy log
// and weekend-bonus flags.
type Entry struct {
	ID            int    `json:"id" db:"id"`
	ParticipantID int    `json:"participant_id" db:"participant_id"`
	TournamentID  int    `json:"tournament_id" db:"tournament_id"`
	Player1ID     string `json:"player1_id" db:"player1_id"`
	Player2ID     string `json:"player2_id" db:"player2_id"`
	Player3ID     string `json:"player3_id" db:"player3_id"`
	Player4ID     string `json:"player4_id" db:"player4_id"`
	Player5ID     string `json:"player5_id" db:"player5_id"`
	Player6ID     string `json:"player6_id" db:"player6_id"`

	WeekendBonusEarned    bool `json:"weekend_bonus_earned" db:"weekend_bonus_earned"`
	WeekendBonusForfeited bool `json:"weekend_bonus_forfeited" db:"weekend_bonus_forfeited"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Loaded by the repository, ordered by insertion.
	Rebuys []Rebuy `json:"rebuys,omitempty" db:"-"`

	// Optional linked data, populated by services for responses.
	Participant *Participant `json:"participant,omitempty" db:"-"`
}

// Picks returns the six primary player IDs in slot order.
func (e *Entry) Picks() [RosterSize]string {
	return [RosterSize]string{
		e.Player1ID, e.Player2ID, e.Player3ID,
		e.Player4ID, e.Player5ID, e.Player6ID,
	}
}

// EffectiveRoster resolves the roster used for scoring the given round: the
// six primary picks with every rebuy whose effective round is at or before
// the target round applied, in log order. Later rebuys may chain on earlier
// replacements.
func (e *Entry) EffectiveRoster(round int) [RosterSize]string {
	roster := e.Picks()
	for _, r := range e.Rebuys {
		if r.EffectiveRound > round {
			continue
		}
		for i, pid := range roster {
			if pid == r.OriginalPlayerID {
				roster[i] = r.ReplacementPlayerID
			}
		}
	}
	return roster
}

// HasPlayer reports whether the effective roster for the round contains the
// player.
func (e *Entry) HasPlayer(playerID string, round int) bool {
	for _, pid := range e.EffectiveRoster(round) {
		if pid == playerID {
			return true
		}
	}
	return false
}
