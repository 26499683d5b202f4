package models

import "time"

// BonusKind enumerates the manually awardable bonus categories.
type BonusKind string

const (
	BonusGIRLeader      BonusKind = "gir_leader"
	BonusFairwaysLeader BonusKind = "fairways_leader"
	BonusLowRound       BonusKind = "low_round"
	BonusEagle          BonusKind = "eagle"
	BonusDoubleEagle    BonusKind = "double_eagle"
	BonusHoleInOne      BonusKind = "hole_in_one"
	BonusAllMakeCut     BonusKind = "all_make_cut"
)

func (k BonusKind) Valid() bool {
	switch k {
	case BonusGIRLeader, BonusFairwaysLeader, BonusLowRound,
		BonusEagle, BonusDoubleEagle, BonusHoleInOne, BonusAllMakeCut:
		return true
	}
	return false
}

// BonusPoint is one manual award for a (round, player, kind) tuple. A single
// award applies to every entry whose effective roster for that round contains
// the player; duplicates are independent, additive events.
type BonusPoint struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	RoundID      int       `json:"round_id" db:"round_id"`
	PlayerID     string    `json:"player_id" db:"player_id"`
	Kind         BonusKind `json:"kind" db:"kind"`
	Points       float64   `json:"points" db:"points"`
	Hole         *int      `json:"hole,omitempty" db:"hole"`
	AwardedAt    time.Time `json:"awarded_at" db:"awarded_at"`
}
