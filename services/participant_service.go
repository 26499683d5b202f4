package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairwayfive/golf-pool/models"
	"github.com/fairwayfive/golf-pool/repositories"
)

// ParticipantService manages the people in the pool.
type ParticipantService struct {
	participantRepo repositories.ParticipantRepository
	logger          *slog.Logger
}

func NewParticipantService(participantRepo repositories.ParticipantRepository, logger *slog.Logger) *ParticipantService {
	return &ParticipantService{participantRepo: participantRepo, logger: logger}
}

func (s *ParticipantService) Create(ctx context.Context, name string, email *string) (*models.Participant, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	participant := &models.Participant{Name: name, Email: email}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		return nil, err
	}
	s.logger.Info("participant created", slog.Int("id", participant.ID), slog.String("name", name))
	return participant, nil
}

func (s *ParticipantService) List(ctx context.Context) ([]models.Participant, error) {
	return s.participantRepo.List(ctx)
}
