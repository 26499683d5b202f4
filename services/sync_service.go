package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fairwayfive/golf-pool/golfdata"
	"github.com/fairwayfive/golf-pool/models"
	"github.com/fairwayfive/golf-pool/repositories"
	"golang.org/x/sync/errgroup"
)

// scorecardFetchLimit bounds concurrent scorecard requests per cycle to stay
// inside the provider's rate limits.
const scorecardFetchLimit = 4

// ResultsProvider is the upstream results feed consumed by the sync service.
type ResultsProvider interface {
	TournamentInfo(ctx context.Context, orgID, tournID string, year int) (*golfdata.TournamentInfo, error)
	Leaderboard(ctx context.Context, orgID, tournID string, year int) (*golfdata.Leaderboard, error)
	PlayerScorecards(ctx context.Context, orgID, tournID string, year int, playerID string) ([]golfdata.Scorecard, error)
}

// SyncService pulls fresh results from the provider and persists them as a
// result snapshot. It refreshes the tournament header and the player
// reference cache along the way.
type SyncService struct {
	provider       ResultsProvider
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	entryRepo      repositories.EntryRepository
	snapshotRepo   repositories.ResultSnapshotRepository
	logger         *slog.Logger
}

func NewSyncService(
	provider ResultsProvider,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	entryRepo repositories.EntryRepository,
	snapshotRepo repositories.ResultSnapshotRepository,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		provider:       provider,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		entryRepo:      entryRepo,
		snapshotRepo:   snapshotRepo,
		logger:         logger,
	}
}

// syncLocked runs one fetch and persists a snapshot for the tournament's
// current round. Callers must hold the tournament lock.
func (s *SyncService) syncLocked(ctx context.Context, tournamentID int) (*models.ResultSnapshot, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	info, err := s.provider.TournamentInfo(ctx, tournament.OrgID, tournament.ExternalID, tournament.Year)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	tournament.Name = info.Name
	tournament.Status = models.TournamentStatus(strings.ToLower(info.Status))
	tournament.CurrentRound = info.CurrentRound
	if !info.StartDate.IsZero() {
		tournament.StartDate = info.StartDate
	}
	if !info.EndDate.IsZero() {
		tournament.EndDate = info.EndDate
	}
	if err := s.tournamentRepo.UpdateFromProvider(ctx, nil, tournament); err != nil {
		return nil, fmt.Errorf("update tournament: %w", err)
	}

	leaderboard, err := s.provider.Leaderboard(ctx, tournament.OrgID, tournament.ExternalID, tournament.Year)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	s.refreshPlayerCache(ctx, leaderboard)

	rostered, err := s.rosteredPlayers(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	scorecards := s.fetchScorecards(ctx, tournament, rostered)

	snapshot := &models.ResultSnapshot{
		TournamentID: tournamentID,
		RoundID:      tournament.CurrentRound,
		Leaderboard:  *leaderboard,
		Scorecards:   scorecards,
	}
	if err := s.snapshotRepo.Insert(ctx, nil, snapshot); err != nil {
		return nil, fmt.Errorf("insert result snapshot: %w", err)
	}

	s.logger.Info("results synced",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round_id", snapshot.RoundID),
		slog.Int("leaderboard_rows", len(leaderboard.Rows)))
	return snapshot, nil
}

// refreshPlayerCache upserts every leaderboard row into the player reference
// table. Cache misses are logged, never fatal to the cycle.
func (s *SyncService) refreshPlayerCache(ctx context.Context, leaderboard *golfdata.Leaderboard) {
	for _, row := range leaderboard.Rows {
		player := &models.Player{
			ExternalID: row.PlayerID,
			FirstName:  row.FirstName,
			LastName:   row.LastName,
			FullName:   strings.TrimSpace(row.FirstName + " " + row.LastName),
		}
		if err := s.playerRepo.Upsert(ctx, nil, player); err != nil {
			s.logger.Warn("player cache refresh failed",
				slog.String("player_id", row.PlayerID),
				slog.String("error", err.Error()))
		}
	}
}

// rosteredPlayers returns the union of every entry's picks and rebuy
// replacements. Only these players need scorecards.
func (s *SyncService) rosteredPlayers(ctx context.Context, tournamentID int) ([]string, error) {
	entries, err := s.entryRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	set := make(map[string]bool)
	ids := make([]string, 0)
	add := func(playerID string) {
		if playerID != "" && !set[playerID] {
			set[playerID] = true
			ids = append(ids, playerID)
		}
	}
	for i := range entries {
		for _, playerID := range entries[i].Picks() {
			add(playerID)
		}
		for _, rebuy := range entries[i].Rebuys {
			add(rebuy.ReplacementPlayerID)
		}
	}
	return ids, nil
}

// fetchScorecards pulls scorecards for the rostered players concurrently.
// Individual failures are logged and skipped: scorecards feed bonus
// suggestions, not base scoring, so a partial set is still useful.
func (s *SyncService) fetchScorecards(ctx context.Context, tournament *models.Tournament, playerIDs []string) map[string][]golfdata.Scorecard {
	scorecards := make(map[string][]golfdata.Scorecard, len(playerIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scorecardFetchLimit)
	for _, playerID := range playerIDs {
		playerID := playerID
		g.Go(func() error {
			cards, err := s.provider.PlayerScorecards(gctx, tournament.OrgID, tournament.ExternalID, tournament.Year, playerID)
			if err != nil {
				s.logger.Warn("scorecard fetch failed",
					slog.String("player_id", playerID),
					slog.String("error", err.Error()))
				return nil
			}
			mu.Lock()
			scorecards[playerID] = cards
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return scorecards
}
