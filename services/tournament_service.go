package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairwayfive/golf-pool/models"
	"github.com/fairwayfive/golf-pool/repositories"
)

// TournamentService manages the tournament reference records that drive
// scheduling and scoring.
type TournamentService struct {
	provider       ResultsProvider
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewTournamentService(
	provider ResultsProvider,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{provider: provider, tournamentRepo: tournamentRepo, logger: logger}
}

// CreateFromProvider registers a tournament for the pool by fetching its
// header from the provider. Idempotent per (year, external ID).
func (s *TournamentService) CreateFromProvider(ctx context.Context, year int, externalID, orgID string) (*models.Tournament, error) {
	if year < 2000 || externalID == "" {
		return nil, fmt.Errorf("%w: year and external_id are required", ErrValidationFailed)
	}
	if orgID == "" {
		orgID = "1"
	}

	info, err := s.provider.TournamentInfo(ctx, orgID, externalID, year)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	tournament := &models.Tournament{
		Year:         year,
		ExternalID:   externalID,
		OrgID:        orgID,
		Name:         info.Name,
		StartDate:    info.StartDate,
		EndDate:      info.EndDate,
		Status:       models.TournamentStatus(strings.ToLower(info.Status)),
		CurrentRound: info.CurrentRound,
	}
	if tournament.Status == "" {
		tournament.Status = models.TournamentScheduled
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentConflict) {
			return nil, ErrTournamentConflict
		}
		return nil, err
	}

	s.logger.Info("tournament registered",
		slog.Int("id", tournament.ID),
		slog.String("name", tournament.Name),
		slog.Int("year", year))
	return tournament, nil
}

func (s *TournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) List(ctx context.Context, year *int) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, year)
}
