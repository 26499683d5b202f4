package golfdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Player statuses as reported in leaderboard rows.
const (
	StatusActive   = "active"
	StatusComplete = "complete"
	StatusCut      = "cut"
	StatusWD       = "wd"
	StatusDQ       = "dq"
)

// TournamentInfo is the provider's tournament header record.
type TournamentInfo struct {
	ExternalID   string    `json:"tournId"`
	OrgID        string    `json:"orgId"`
	Name         string    `json:"name"`
	Year         int       `json:"year"`
	StartDate    time.Time `json:"-"`
	EndDate      time.Time `json:"-"`
	Status       string    `json:"status"`
	CurrentRound int       `json:"currentRound"`
}

// Leaderboard is a full tournament leaderboard at one point in time.
type Leaderboard struct {
	Rows []LeaderboardRow `json:"leaderboardRows"`
}

// LeaderboardRow is one golfer's line on the leaderboard.
type LeaderboardRow struct {
	PlayerID          string `json:"playerId"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Position          string `json:"position"`
	Status            string `json:"status"`
	Total             string `json:"total"`
	CurrentRoundScore string `json:"currentRoundScore"`
}

// Row returns the leaderboard row for a player, or nil when the player is not
// in the field.
func (l *Leaderboard) Row(playerID string) *LeaderboardRow {
	for i := range l.Rows {
		if l.Rows[i].PlayerID == playerID {
			return &l.Rows[i]
		}
	}
	return nil
}

// Winner returns the player ID holding position 1 with a complete round, or
// "" if the tournament has no winner yet.
func (l *Leaderboard) Winner() string {
	for i := range l.Rows {
		if l.Rows[i].Position == "1" && strings.EqualFold(l.Rows[i].Status, StatusComplete) {
			return l.Rows[i].PlayerID
		}
	}
	return ""
}

// Hole is one hole result on a scorecard.
type Hole struct {
	Par   int `json:"par"`
	Score int `json:"holeScore"`
}

// Scorecard is one golfer's scorecard for one round. Holes are keyed by hole
// number ("1".."18").
type Scorecard struct {
	RoundID int             `json:"roundId"`
	Holes   map[string]Hole `json:"holes"`
}

// ParsePosition converts a leaderboard position string ("1", "T2", "5") to a
// numeric position. Non-numeric positions (cut, wd, dq, empty) return 0 and
// false.
func ParsePosition(position string) (int, bool) {
	p := strings.TrimSpace(position)
	if p == "" {
		return 0, false
	}
	switch strings.ToLower(p) {
	case StatusCut, StatusWD, StatusDQ:
		return 0, false
	}
	p = strings.TrimPrefix(strings.ToUpper(p), "T")
	n, err := strconv.Atoi(p)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseRelativeScore converts a to-par score string ("-5", "+2", "E") to an
// integer.
func ParseRelativeScore(s string) (int, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, fmt.Errorf("empty score")
	}
	if strings.EqualFold(v, "E") {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(v, "+"))
	if err != nil {
		return 0, fmt.Errorf("unparseable score %q: %w", s, err)
	}
	return n, nil
}
