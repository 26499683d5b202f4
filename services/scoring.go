package services

import (
	"strings"

	"github.com/fairwayfive/golf-pool/golfdata"
	"github.com/fairwayfive/golf-pool/models"
)

// FinalRound is the last scored round of a standard event.
const FinalRound = 4

// RoundRule is the outcome-to-points table for one round. Tiers are exclusive:
// a player scores the single highest tier their position qualifies for.
type RoundRule struct {
	Winner  float64 // final round only, position 1 with a complete round
	Leader  float64
	Top5    float64
	Top10   float64
	Top25   float64
	MadeCut float64
}

// RuleSet holds the per-round scoring tables plus the team bonus for a full
// roster surviving the cut. The mapping is total: any outcome not covered by
// a tier (missed cut, withdrawal, disqualification, not in the field) scores
// zero.
type RuleSet struct {
	Rounds      [FinalRound + 1]RoundRule // indexed by round, 0 unused
	WeekendTeam float64
}

// DefaultRuleSet returns the house scoring tables. Opening round pays light,
// weekend rounds pay deeper, and only a completed final round pays the winner
// premium.
func DefaultRuleSet() *RuleSet {
	weekend := RoundRule{Leader: 12, Top5: 8, Top10: 5, Top25: 3, MadeCut: 1}
	return &RuleSet{
		Rounds: [FinalRound + 1]RoundRule{
			1: {Leader: 8, Top5: 5, Top10: 3, Top25: 1},
			2: weekend,
			3: weekend,
			4: {Winner: 15, Leader: 12, Top5: 8, Top10: 5, Top25: 3, MadeCut: 1},
		},
		WeekendTeam: 5,
	}
}

// PositionPoints converts one leaderboard row into base points for a round.
// A nil row (player not in the field) and non-numeric positions score zero.
func (rs *RuleSet) PositionPoints(round int, row *golfdata.LeaderboardRow) float64 {
	if row == nil || round < 1 || round > FinalRound {
		return 0
	}
	pos, ok := golfdata.ParsePosition(row.Position)
	if !ok {
		return 0
	}
	rule := rs.Rounds[round]
	switch {
	case pos == 1:
		if round == FinalRound && strings.EqualFold(row.Status, golfdata.StatusComplete) {
			return rule.Winner
		}
		return rule.Leader
	case pos <= 5:
		return rule.Top5
	case pos <= 10:
		return rule.Top10
	case pos <= 25:
		return rule.Top25
	default:
		return rule.MadeCut
	}
}

// MadeCut reports whether a player is still in the field per the leaderboard.
func MadeCut(lb *golfdata.Leaderboard, playerID string) bool {
	row := lb.Row(playerID)
	if row == nil {
		return false
	}
	_, ok := golfdata.ParsePosition(row.Position)
	return ok
}

// ScoreEntry computes the score of one entry for one round from a leaderboard
// and the manual awards for that round. The result carries a full breakdown:
// one slot line per effective roster position and one bonus line per applied
// award. Pure: same inputs always produce the same score.
func (rs *RuleSet) ScoreEntry(entry *models.Entry, round int, lb *golfdata.Leaderboard, awards []models.BonusPoint) models.DailyScore {
	roster := entry.EffectiveRoster(round)

	score := models.DailyScore{
		EntryID: entry.ID,
		RoundID: round,
		Breakdown: models.ScoreBreakdown{
			Slots:   make([]models.SlotScore, 0, models.RosterSize),
			Bonuses: make([]models.BonusLine, 0),
		},
	}

	for i, playerID := range roster {
		row := lb.Row(playerID)
		slot := models.SlotScore{Slot: i + 1, PlayerID: playerID}
		if row != nil {
			slot.Position = row.Position
			slot.Status = row.Status
		}
		slot.Points = rs.PositionPoints(round, row)
		score.BasePoints += slot.Points
		score.Breakdown.Slots = append(score.Breakdown.Slots, slot)
	}

	for _, award := range awards {
		if award.RoundID != round {
			continue
		}
		if !rosterContains(roster, award.PlayerID) {
			continue
		}
		score.BonusPoints += award.Points
		score.Breakdown.Bonuses = append(score.Breakdown.Bonuses, models.BonusLine{
			AwardID:  award.ID,
			PlayerID: award.PlayerID,
			Kind:     award.Kind,
			Points:   award.Points,
		})
	}

	// Weekend team bonus: earned once when the full original roster survives
	// the cut, paid with the third round, withheld after a forfeiture.
	if round == 3 && entry.WeekendBonusEarned && !entry.WeekendBonusForfeited {
		score.BonusPoints += rs.WeekendTeam
		score.Breakdown.Bonuses = append(score.Breakdown.Bonuses, models.BonusLine{
			Kind:   models.BonusAllMakeCut,
			Points: rs.WeekendTeam,
		})
	}

	score.TotalPoints = score.BasePoints + score.BonusPoints
	return score
}

func rosterContains(roster [models.RosterSize]string, playerID string) bool {
	for _, id := range roster {
		if id == playerID {
			return true
		}
	}
	return false
}
