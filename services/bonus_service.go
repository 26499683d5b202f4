package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fairwayfive/golf-pool/golfdata"
	"github.com/fairwayfive/golf-pool/models"
	"github.com/fairwayfive/golf-pool/repositories"
)

// Default award magnitudes per bonus kind, used when a request leaves points
// unset.
var defaultBonusPoints = map[models.BonusKind]float64{
	models.BonusGIRLeader:      2,
	models.BonusFairwaysLeader: 2,
	models.BonusLowRound:       2,
	models.BonusEagle:          2,
	models.BonusDoubleEagle:    3,
	models.BonusHoleInOne:      3,
	models.BonusAllMakeCut:     5,
}

// AddBonusInput is one manual award request.
type AddBonusInput struct {
	TournamentID int              `json:"tournament_id"`
	RoundID      int              `json:"round_id"`
	PlayerID     string           `json:"player_id"`
	Kind         models.BonusKind `json:"kind"`
	Points       float64          `json:"points"`
	Hole         *int             `json:"hole,omitempty"`
}

// BonusMutation reports a committed award change and the entries whose totals
// it touched. Totals are already recalculated when callers receive this.
type BonusMutation struct {
	Award           *models.BonusPoint `json:"award,omitempty"`
	AffectedEntries []int              `json:"affected_entries"`
}

// BulkAddResult reports one line of a bulk add.
type BulkAddResult struct {
	Input    AddBonusInput  `json:"input"`
	Mutation *BonusMutation `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// BonusSuggestion is a scorecard-derived candidate award for manual
// confirmation. Suggestions are advisory; nothing is persisted until an
// admin adds the award.
type BonusSuggestion struct {
	RoundID  int              `json:"round_id"`
	PlayerID string           `json:"player_id"`
	Kind     models.BonusKind `json:"kind"`
	Points   float64          `json:"points"`
	Hole     *int             `json:"hole,omitempty"`
}

// BonusService owns manual bonus awards. Every mutation synchronously runs a
// recalculation scoped to the affected entries under the tournament lock, so
// callers observe consistent totals on return. A mutation whose recalculation
// fails is undone before the error returns.
type BonusService struct {
	bonusRepo    repositories.BonusPointRepository
	entryRepo    repositories.EntryRepository
	snapshotRepo repositories.ResultSnapshotRepository
	calculator   *CalculatorService
	locks        *TournamentLocks
	logger       *slog.Logger
}

func NewBonusService(
	bonusRepo repositories.BonusPointRepository,
	entryRepo repositories.EntryRepository,
	snapshotRepo repositories.ResultSnapshotRepository,
	calculator *CalculatorService,
	locks *TournamentLocks,
	logger *slog.Logger,
) *BonusService {
	return &BonusService{
		bonusRepo:    bonusRepo,
		entryRepo:    entryRepo,
		snapshotRepo: snapshotRepo,
		calculator:   calculator,
		locks:        locks,
		logger:       logger,
	}
}

// Add creates one award and recalculates every entry whose effective roster
// for the round contains the player. Duplicate awards are independent,
// additive events.
func (s *BonusService) Add(ctx context.Context, input AddBonusInput) (*BonusMutation, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	award := &models.BonusPoint{
		TournamentID: input.TournamentID,
		RoundID:      input.RoundID,
		PlayerID:     input.PlayerID,
		Kind:         input.Kind,
		Points:       input.Points,
		Hole:         input.Hole,
	}
	if err := s.bonusRepo.Create(ctx, award); err != nil {
		if errors.Is(err, repositories.ErrBonusPointInvalidRef) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	affected, err := s.recalculateAffected(ctx, input.TournamentID, input.RoundID, input.PlayerID)
	if err != nil {
		// Undo the award so the ledger keeps matching the stored totals.
		if delErr := s.bonusRepo.Delete(ctx, award.ID); delErr != nil {
			s.logger.Error("award rollback failed",
				slog.Int("award_id", award.ID),
				slog.String("error", delErr.Error()))
		}
		return nil, err
	}

	s.logger.Info("bonus award added",
		slog.Int("award_id", award.ID),
		slog.String("kind", string(award.Kind)),
		slog.String("player_id", award.PlayerID),
		slog.Int("affected_entries", len(affected)))
	return &BonusMutation{Award: award, AffectedEntries: affected}, nil
}

// AddBulk applies several awards in order, reporting per-award success.
func (s *BonusService) AddBulk(ctx context.Context, inputs []AddBonusInput) []BulkAddResult {
	results := make([]BulkAddResult, 0, len(inputs))
	for _, input := range inputs {
		mutation, err := s.Add(ctx, input)
		line := BulkAddResult{Input: input, Mutation: mutation}
		if err != nil {
			line.Error = err.Error()
		}
		results = append(results, line)
	}
	return results
}

// Delete removes exactly one award and reverts its contribution by
// recalculating the affected entries.
func (s *BonusService) Delete(ctx context.Context, awardID int) (*BonusMutation, error) {
	award, err := s.bonusRepo.GetByID(ctx, awardID)
	if err != nil {
		if errors.Is(err, repositories.ErrBonusPointNotFound) {
			return nil, ErrAwardNotFound
		}
		return nil, err
	}
	if err := s.bonusRepo.Delete(ctx, awardID); err != nil {
		if errors.Is(err, repositories.ErrBonusPointNotFound) {
			return nil, ErrAwardNotFound
		}
		return nil, err
	}

	affected, err := s.recalculateAffected(ctx, award.TournamentID, award.RoundID, award.PlayerID)
	if err != nil {
		// Put the award back so the ledger keeps matching the stored totals.
		restored := *award
		restored.ID = 0
		if addErr := s.bonusRepo.Create(ctx, &restored); addErr != nil {
			s.logger.Error("award restore failed",
				slog.Int("award_id", awardID),
				slog.String("error", addErr.Error()))
		}
		return nil, err
	}

	s.logger.Info("bonus award deleted",
		slog.Int("award_id", awardID),
		slog.Int("affected_entries", len(affected)))
	return &BonusMutation{AffectedEntries: affected}, nil
}

// List returns awards for a tournament, optionally scoped to one round.
func (s *BonusService) List(ctx context.Context, tournamentID int, roundID *int) ([]models.BonusPoint, error) {
	return s.bonusRepo.List(ctx, repositories.ListBonusPointsFilter{
		TournamentID: tournamentID,
		RoundID:      roundID,
	})
}

// recalculateAffected reruns the calculator for the entries rostering the
// player in the round. Bonus mutations always queue behind an in-flight
// cycle rather than rejecting.
func (s *BonusService) recalculateAffected(ctx context.Context, tournamentID, roundID int, playerID string) ([]int, error) {
	entries, err := s.entryRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	affected := make(map[int]bool)
	ids := make([]int, 0)
	for i := range entries {
		if entries[i].HasPlayer(playerID, roundID) {
			affected[entries[i].ID] = true
			ids = append(ids, entries[i].ID)
		}
	}
	if len(ids) == 0 {
		return ids, nil
	}

	release, err := s.locks.Acquire(ctx, tournamentID, true)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.calculator.calculateLocked(ctx, tournamentID, &roundID, affected); err != nil {
		// The award is committed; scores catch up on the next cycle.
		if errors.Is(err, ErrNoResultSnapshot) {
			s.logger.Warn("award committed before first sync, scores deferred",
				slog.Int("tournament_id", tournamentID),
				slog.Int("round_id", roundID))
			return ids, nil
		}
		return nil, err
	}
	return ids, nil
}

func (s *BonusService) validate(input *AddBonusInput) error {
	if input.RoundID < 1 || input.RoundID > FinalRound {
		return ErrInvalidRound
	}
	if !input.Kind.Valid() {
		return ErrInvalidBonusKind
	}
	if input.PlayerID == "" {
		return fmt.Errorf("%w: player_id is required", ErrValidationFailed)
	}
	if input.Points < 0 {
		return fmt.Errorf("%w: points must not be negative", ErrValidationFailed)
	}
	if input.Points == 0 {
		input.Points = defaultBonusPoints[input.Kind]
	}
	return nil
}

// Suggestions scans the latest synced scorecards for award candidates:
// aces, eagles, albatrosses and the lowest round of the day.
func (s *BonusService) Suggestions(ctx context.Context, tournamentID int) ([]BonusSuggestion, error) {
	snapshot, err := s.snapshotRepo.Latest(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultSnapshotNotFound) {
			return nil, ErrNoResultSnapshot
		}
		return nil, err
	}

	suggestions := make([]BonusSuggestion, 0)
	lowStrokes := make(map[int]int)
	lowPlayers := make(map[int][]string)

	playerIDs := make([]string, 0, len(snapshot.Scorecards))
	for playerID := range snapshot.Scorecards {
		playerIDs = append(playerIDs, playerID)
	}
	sort.Strings(playerIDs)

	for _, playerID := range playerIDs {
		for _, card := range snapshot.Scorecards[playerID] {
			strokes := 0
			complete := len(card.Holes) == 18
			for holeNum, hole := range card.Holes {
				strokes += hole.Score
				if hole.Score <= 0 {
					complete = false
					continue
				}
				if kind, ok := holeAwardKind(hole); ok {
					suggestions = append(suggestions, BonusSuggestion{
						RoundID:  card.RoundID,
						PlayerID: playerID,
						Kind:     kind,
						Points:   defaultBonusPoints[kind],
						Hole:     holeNumber(holeNum),
					})
				}
			}
			if !complete {
				continue
			}
			if best, ok := lowStrokes[card.RoundID]; !ok || strokes < best {
				lowStrokes[card.RoundID] = strokes
				lowPlayers[card.RoundID] = []string{playerID}
			} else if strokes == best {
				lowPlayers[card.RoundID] = append(lowPlayers[card.RoundID], playerID)
			}
		}
	}

	rounds := make([]int, 0, len(lowPlayers))
	for round := range lowPlayers {
		rounds = append(rounds, round)
	}
	sort.Ints(rounds)
	for _, round := range rounds {
		for _, playerID := range lowPlayers[round] {
			suggestions = append(suggestions, BonusSuggestion{
				RoundID:  round,
				PlayerID: playerID,
				Kind:     models.BonusLowRound,
				Points:   defaultBonusPoints[models.BonusLowRound],
			})
		}
	}
	return suggestions, nil
}

func holeAwardKind(hole golfdata.Hole) (models.BonusKind, bool) {
	if hole.Score == 1 {
		return models.BonusHoleInOne, true
	}
	switch hole.Par - hole.Score {
	case 2:
		if hole.Par >= 4 {
			return models.BonusEagle, true
		}
	case 3:
		return models.BonusDoubleEagle, true
	}
	return "", false
}

func holeNumber(num string) *int {
	n := 0
	for _, c := range num {
		if c < '0' || c > '9' {
			return nil
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return nil
	}
	return &n
}
