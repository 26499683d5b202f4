package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fairwayfive/golf-pool/golfdata"
	"github.com/fairwayfive/golf-pool/models"
	"github.com/fairwayfive/golf-pool/repositories"
)

// EntryFailure reports one entry that could not be scored during a batch.
type EntryFailure struct {
	EntryID int    `json:"entry_id"`
	Reason  string `json:"reason"`
}

// CalculationResult summarizes one recalculation run. Partial is true when
// some entries failed; their previous scores remain untouched.
type CalculationResult struct {
	TournamentID int            `json:"tournament_id"`
	Rounds       []int          `json:"rounds"`
	Recalculated int            `json:"recalculated"`
	Failures     []EntryFailure `json:"failures,omitempty"`
}

func (r *CalculationResult) Partial() bool { return len(r.Failures) > 0 }

// CalculatorService turns synced result snapshots plus manual awards into
// persisted per-entry round scores. It never talks to the provider itself.
type CalculatorService struct {
	tournamentRepo repositories.TournamentRepository
	entryRepo      repositories.EntryRepository
	scoreRepo      repositories.DailyScoreRepository
	snapshotRepo   repositories.ResultSnapshotRepository
	bonusRepo      repositories.BonusPointRepository
	history        *HistoryService
	rules          *RuleSet
	locks          *TournamentLocks
	logger         *slog.Logger
}

func NewCalculatorService(
	tournamentRepo repositories.TournamentRepository,
	entryRepo repositories.EntryRepository,
	scoreRepo repositories.DailyScoreRepository,
	snapshotRepo repositories.ResultSnapshotRepository,
	bonusRepo repositories.BonusPointRepository,
	history *HistoryService,
	rules *RuleSet,
	locks *TournamentLocks,
	logger *slog.Logger,
) *CalculatorService {
	return &CalculatorService{
		tournamentRepo: tournamentRepo,
		entryRepo:      entryRepo,
		scoreRepo:      scoreRepo,
		snapshotRepo:   snapshotRepo,
		bonusRepo:      bonusRepo,
		history:        history,
		rules:          rules,
		locks:          locks,
		logger:         logger,
	}
}

// Calculate recomputes scores for one round, or for every round up to the
// tournament's current round when roundID is nil. It takes the tournament
// lock; wait selects queueing behind a holder versus ErrSyncInProgress.
func (s *CalculatorService) Calculate(ctx context.Context, tournamentID int, roundID *int, wait bool) (*CalculationResult, error) {
	release, err := s.locks.Acquire(ctx, tournamentID, wait)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.calculateLocked(ctx, tournamentID, roundID, nil)
}

// calculateLocked is the body of a recalculation. Callers must hold the
// tournament lock. When onlyEntries is non-nil the run is scoped to those
// entry IDs, leaving all other scores untouched.
func (s *CalculatorService) calculateLocked(ctx context.Context, tournamentID int, roundID *int, onlyEntries map[int]bool) (*CalculationResult, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	rounds, err := resolveRounds(tournament, roundID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	awards, err := s.bonusRepo.List(ctx, repositories.ListBonusPointsFilter{TournamentID: tournamentID})
	if err != nil {
		return nil, fmt.Errorf("list bonus awards: %w", err)
	}

	result := &CalculationResult{TournamentID: tournamentID}

	for _, round := range rounds {
		snapshot, err := s.snapshotRepo.LatestByRound(ctx, tournamentID, round)
		if err != nil {
			if errors.Is(err, repositories.ErrResultSnapshotNotFound) {
				if roundID != nil {
					return nil, ErrNoResultSnapshot
				}
				// No synced data for this round yet; nothing to score.
				continue
			}
			return nil, fmt.Errorf("load snapshot for round %d: %w", round, err)
		}
		result.Rounds = append(result.Rounds, round)

		for i := range entries {
			entry := &entries[i]
			if onlyEntries != nil && !onlyEntries[entry.ID] {
				continue
			}

			if round == 3 {
				if err := s.evaluateWeekendBonus(ctx, entry, &snapshot.Leaderboard); err != nil {
					result.Failures = append(result.Failures, EntryFailure{EntryID: entry.ID, Reason: err.Error()})
					continue
				}
			}

			score := s.rules.ScoreEntry(entry, round, &snapshot.Leaderboard, awards)
			if err := s.scoreRepo.Upsert(ctx, nil, &score); err != nil {
				s.logger.Error("score upsert failed",
					slog.Int("entry_id", entry.ID),
					slog.Int("round_id", round),
					slog.String("error", err.Error()))
				result.Failures = append(result.Failures, EntryFailure{EntryID: entry.ID, Reason: err.Error()})
				continue
			}
			result.Recalculated++
		}
	}

	if len(result.Rounds) > 0 {
		lastRound := result.Rounds[len(result.Rounds)-1]
		if err := s.history.RecordStandings(ctx, tournamentID, lastRound); err != nil {
			return nil, fmt.Errorf("record standings: %w", err)
		}
	}

	s.logger.Info("recalculation finished",
		slog.Int("tournament_id", tournamentID),
		slog.Int("recalculated", result.Recalculated),
		slog.Int("failed", len(result.Failures)))
	return result, nil
}

// evaluateWeekendBonus marks the team bonus earned once all six original
// picks survive the cut. A forfeited entry never earns it, and an earned
// flag is never cleared by later data.
func (s *CalculatorService) evaluateWeekendBonus(ctx context.Context, entry *models.Entry, lb *golfdata.Leaderboard) error {
	if entry.WeekendBonusEarned || entry.WeekendBonusForfeited {
		return nil
	}
	for _, playerID := range entry.Picks() {
		if !MadeCut(lb, playerID) {
			return nil
		}
	}
	if err := s.entryRepo.SetWeekendBonus(ctx, nil, entry.ID, true, false); err != nil {
		return fmt.Errorf("set weekend bonus: %w", err)
	}
	entry.WeekendBonusEarned = true
	return nil
}

func resolveRounds(t *models.Tournament, roundID *int) ([]int, error) {
	if roundID != nil {
		if *roundID < 1 || *roundID > FinalRound {
			return nil, ErrInvalidRound
		}
		return []int{*roundID}, nil
	}
	current := t.CurrentRound
	if current < 1 {
		current = 1
	}
	if current > FinalRound {
		current = FinalRound
	}
	rounds := make([]int, 0, current)
	for r := 1; r <= current; r++ {
		rounds = append(rounds, r)
	}
	return rounds, nil
}
