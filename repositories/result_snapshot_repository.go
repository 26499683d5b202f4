package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fairwayfive/golf-pool/golfdata"
	"github.com/fairwayfive/golf-pool/models"
)

var ErrResultSnapshotNotFound = errors.New("result snapshot not found")

type ResultSnapshotRepository interface {
	Insert(ctx context.Context, exec SQLExecutor, s *models.ResultSnapshot) error
	LatestByRound(ctx context.Context, tournamentID, roundID int) (*models.ResultSnapshot, error)
	Latest(ctx context.Context, tournamentID int) (*models.ResultSnapshot, error)
}

type postgresResultSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresResultSnapshotRepository(db *sql.DB) ResultSnapshotRepository {
	return &postgresResultSnapshotRepository{db: db}
}

func (r *postgresResultSnapshotRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresResultSnapshotRepository) Insert(ctx context.Context, exec SQLExecutor, s *models.ResultSnapshot) error {
	executor := r.getExecutor(exec)

	leaderboard, err := json.Marshal(s.Leaderboard)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	scorecards, err := json.Marshal(s.Scorecards)
	if err != nil {
		return fmt.Errorf("marshal scorecards: %w", err)
	}

	query := `
		INSERT INTO result_snapshots (tournament_id, round_id, leaderboard, scorecards)
		VALUES ($1, $2, $3, $4)
		RETURNING id, fetched_at`

	return executor.QueryRowContext(ctx, query,
		s.TournamentID, s.RoundID, leaderboard, scorecards,
	).Scan(&s.ID, &s.FetchedAt)
}

func (r *postgresResultSnapshotRepository) LatestByRound(ctx context.Context, tournamentID, roundID int) (*models.ResultSnapshot, error) {
	query := `
		SELECT id, tournament_id, round_id, leaderboard, scorecards, fetched_at
		FROM result_snapshots
		WHERE tournament_id = $1 AND round_id = $2
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1`
	return r.queryOne(ctx, query, tournamentID, roundID)
}

func (r *postgresResultSnapshotRepository) Latest(ctx context.Context, tournamentID int) (*models.ResultSnapshot, error) {
	query := `
		SELECT id, tournament_id, round_id, leaderboard, scorecards, fetched_at
		FROM result_snapshots
		WHERE tournament_id = $1
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1`
	return r.queryOne(ctx, query, tournamentID)
}

func (r *postgresResultSnapshotRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.ResultSnapshot, error) {
	s := &models.ResultSnapshot{}
	var leaderboard, scorecards []byte

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.TournamentID, &s.RoundID, &leaderboard, &scorecards, &s.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultSnapshotNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(leaderboard, &s.Leaderboard); err != nil {
		return nil, fmt.Errorf("unmarshal leaderboard: %w", err)
	}
	s.Scorecards = make(map[string][]golfdata.Scorecard)
	if len(scorecards) > 0 {
		if err := json.Unmarshal(scorecards, &s.Scorecards); err != nil {
			return nil, fmt.Errorf("unmarshal scorecards: %w", err)
		}
	}
	return s, nil
}
