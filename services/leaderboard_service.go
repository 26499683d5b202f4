package services

import (
	"context"
	"errors"
	"time"

	"github.com/fairwayfive/golf-pool/models"
	"github.com/fairwayfive/golf-pool/repositories"
)

// RoundScore is one round's line in a standing's breakdown.
type RoundScore struct {
	RoundID     int     `json:"round_id"`
	BasePoints  float64 `json:"base_points"`
	BonusPoints float64 `json:"bonus_points"`
	TotalPoints float64 `json:"total_points"`
}

// EntryStanding is one ranked line of the pool leaderboard.
type EntryStanding struct {
	Position           int          `json:"position"`
	EntryID            int          `json:"entry_id"`
	ParticipantName    string       `json:"participant_name"`
	TotalPoints        float64      `json:"total_points"`
	PointsBehindLeader float64      `json:"points_behind_leader"`
	WeekendBonusEarned bool         `json:"weekend_bonus_earned"`
	Rounds             []RoundScore `json:"rounds"`
}

// PoolLeaderboard is the current ranked standings with per-round breakdowns.
// It always reflects the last committed recalculation.
type PoolLeaderboard struct {
	TournamentID int             `json:"tournament_id"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Standings    []EntryStanding `json:"standings"`
}

type LeaderboardService struct {
	tournamentRepo  repositories.TournamentRepository
	entryRepo       repositories.EntryRepository
	participantRepo repositories.ParticipantRepository
	scoreRepo       repositories.DailyScoreRepository
}

func NewLeaderboardService(
	tournamentRepo repositories.TournamentRepository,
	entryRepo repositories.EntryRepository,
	participantRepo repositories.ParticipantRepository,
	scoreRepo repositories.DailyScoreRepository,
) *LeaderboardService {
	return &LeaderboardService{
		tournamentRepo:  tournamentRepo,
		entryRepo:       entryRepo,
		participantRepo: participantRepo,
		scoreRepo:       scoreRepo,
	}
}

// Leaderboard assembles the ranked standings from committed daily scores.
// Entries without any score yet rank last on zero points.
func (s *LeaderboardService) Leaderboard(ctx context.Context, tournamentID int) (*PoolLeaderboard, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	entries, err := s.entryRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	scores, err := s.scoreRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	participants, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	totals := make(map[int]float64, len(entries))
	rounds := make(map[int][]RoundScore, len(entries))
	for i := range entries {
		totals[entries[i].ID] = 0
	}
	for _, score := range scores {
		totals[score.EntryID] += score.TotalPoints
		rounds[score.EntryID] = append(rounds[score.EntryID], RoundScore{
			RoundID:     score.RoundID,
			BasePoints:  score.BasePoints,
			BonusPoints: score.BonusPoints,
			TotalPoints: score.TotalPoints,
		})
	}

	ranked := rankStandings(totals)
	board := &PoolLeaderboard{
		TournamentID: tournamentID,
		GeneratedAt:  time.Now().UTC(),
		Standings:    make([]EntryStanding, 0, len(ranked)),
	}
	if len(ranked) == 0 {
		return board, nil
	}

	entryByID := make(map[int]*models.Entry, len(entries))
	for i := range entries {
		entryByID[entries[i].ID] = &entries[i]
	}

	leaderTotal := totals[ranked[0]]
	for i, entryID := range ranked {
		entry := entryByID[entryID]
		standing := EntryStanding{
			Position:           i + 1,
			EntryID:            entryID,
			TotalPoints:        totals[entryID],
			PointsBehindLeader: leaderTotal - totals[entryID],
			Rounds:             rounds[entryID],
		}
		if entry != nil {
			standing.ParticipantName = names[entry.ParticipantID]
			standing.WeekendBonusEarned = entry.WeekendBonusEarned
		}
		board.Standings = append(board.Standings, standing)
	}
	return board, nil
}
