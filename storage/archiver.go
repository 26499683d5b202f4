package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fairwayfive/golf-pool/services"
)

// CycleArchive stores each committed cycle's leaderboard as a JSON object,
// keyed by tournament and run ID. Implements services.CycleArchiver.
type CycleArchive struct {
	uploader FileUploader
	logger   *slog.Logger
}

func NewCycleArchive(uploader FileUploader, logger *slog.Logger) *CycleArchive {
	return &CycleArchive{uploader: uploader, logger: logger}
}

func (a *CycleArchive) ArchiveCycle(ctx context.Context, tournamentID int, runID string, board *services.PoolLeaderboard) error {
	payload, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}

	key := fmt.Sprintf("tournaments/%d/cycles/%s.json", tournamentID, runID)
	result, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}

	a.logger.Debug("cycle archived",
		slog.Int("tournament_id", tournamentID),
		slog.String("key", result.Key))
	return nil
}
