package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fairwayfive/golf-pool/models"
	"github.com/fairwayfive/golf-pool/repositories"
)

// CreateEntryInput is one roster submission.
type CreateEntryInput struct {
	ParticipantID int      `json:"participant_id"`
	TournamentID  int      `json:"tournament_id"`
	PlayerIDs     []string `json:"player_ids"`
}

// AddRebuyInput records one roster substitution.
type AddRebuyInput struct {
	OriginalPlayerID    string             `json:"original_player_id"`
	ReplacementPlayerID string             `json:"replacement_player_id"`
	Reason              models.RebuyReason `json:"reason"`
	EffectiveRound      int                `json:"effective_round"`
}

// EntryDetail is one entry with its owner and scored rounds attached.
type EntryDetail struct {
	Entry  *models.Entry       `json:"entry"`
	Scores []models.DailyScore `json:"scores"`
}

// EntryService manages pool entries and their rebuy logs.
type EntryService struct {
	entryRepo       repositories.EntryRepository
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	scoreRepo       repositories.DailyScoreRepository
	logger          *slog.Logger
}

func NewEntryService(
	entryRepo repositories.EntryRepository,
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	scoreRepo repositories.DailyScoreRepository,
	logger *slog.Logger,
) *EntryService {
	return &EntryService{
		entryRepo:       entryRepo,
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		scoreRepo:       scoreRepo,
		logger:          logger,
	}
}

// Create validates and persists a six-player roster submission.
func (s *EntryService) Create(ctx context.Context, input CreateEntryInput) (*models.Entry, error) {
	if len(input.PlayerIDs) != models.RosterSize {
		return nil, ErrIncompleteRoster
	}
	seen := make(map[string]bool, models.RosterSize)
	for _, playerID := range input.PlayerIDs {
		if playerID == "" {
			return nil, ErrIncompleteRoster
		}
		if seen[playerID] {
			return nil, ErrDuplicateRoster
		}
		seen[playerID] = true
	}

	if _, err := s.participantRepo.GetByID(ctx, input.ParticipantID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if _, err := s.tournamentRepo.GetByID(ctx, input.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	entry := &models.Entry{
		ParticipantID: input.ParticipantID,
		TournamentID:  input.TournamentID,
		Player1ID:     input.PlayerIDs[0],
		Player2ID:     input.PlayerIDs[1],
		Player3ID:     input.PlayerIDs[2],
		Player4ID:     input.PlayerIDs[3],
		Player5ID:     input.PlayerIDs[4],
		Player6ID:     input.PlayerIDs[5],
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrEntryInvalidReference) {
			return nil, fmt.Errorf("%w: unknown participant or tournament", ErrValidationFailed)
		}
		return nil, err
	}

	s.logger.Info("entry created",
		slog.Int("entry_id", entry.ID),
		slog.Int("participant_id", entry.ParticipantID),
		slog.Int("tournament_id", entry.TournamentID))
	return entry, nil
}

// Get returns one entry with its rebuy log, owner and scored rounds.
func (s *EntryService) Get(ctx context.Context, id int) (*EntryDetail, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	participant, err := s.participantRepo.GetByID(ctx, entry.ParticipantID)
	if err == nil {
		entry.Participant = participant
	}

	scores, err := s.scoreRepo.ListByEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EntryDetail{Entry: entry, Scores: scores}, nil
}

// ListByTournament returns all entries for a tournament with rebuys loaded.
func (s *EntryService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Entry, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.entryRepo.ListByTournament(ctx, tournamentID)
}

// AddRebuy appends one substitution to the entry's log. The original player
// must be on the effective roster at the effective round, and the
// replacement must not be. An underperformer rebuy forfeits the weekend team
// bonus for good.
func (s *EntryService) AddRebuy(ctx context.Context, entryID int, input AddRebuyInput) (*models.Entry, error) {
	if !input.Reason.Valid() {
		return nil, fmt.Errorf("%w: unknown rebuy reason %q", ErrValidationFailed, input.Reason)
	}
	if input.EffectiveRound < 1 || input.EffectiveRound > FinalRound {
		return nil, ErrInvalidRound
	}
	if input.OriginalPlayerID == "" || input.ReplacementPlayerID == "" {
		return nil, fmt.Errorf("%w: original and replacement players are required", ErrValidationFailed)
	}

	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	if !entry.HasPlayer(input.OriginalPlayerID, input.EffectiveRound) {
		return nil, ErrInvalidRebuy
	}
	if entry.HasPlayer(input.ReplacementPlayerID, input.EffectiveRound) {
		return nil, fmt.Errorf("%w: replacement player already on the roster", ErrValidationFailed)
	}

	rebuy := &models.Rebuy{
		EntryID:             entryID,
		OriginalPlayerID:    input.OriginalPlayerID,
		ReplacementPlayerID: input.ReplacementPlayerID,
		Reason:              input.Reason,
		EffectiveRound:      input.EffectiveRound,
	}
	if err := s.entryRepo.AddRebuy(ctx, rebuy); err != nil {
		return nil, err
	}
	entry.Rebuys = append(entry.Rebuys, *rebuy)

	if input.Reason == models.RebuyUnderperformer && !entry.WeekendBonusForfeited {
		if err := s.entryRepo.SetWeekendBonus(ctx, nil, entryID, false, true); err != nil {
			return nil, fmt.Errorf("forfeit weekend bonus: %w", err)
		}
		entry.WeekendBonusEarned = false
		entry.WeekendBonusForfeited = true
	}

	s.logger.Info("rebuy recorded",
		slog.Int("entry_id", entryID),
		slog.String("original", input.OriginalPlayerID),
		slog.String("replacement", input.ReplacementPlayerID),
		slog.String("reason", string(input.Reason)),
		slog.Int("effective_round", input.EffectiveRound))
	return entry, nil
}
