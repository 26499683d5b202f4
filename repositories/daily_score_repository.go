package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fairwayfive/golf-pool/models"
)

var ErrDailyScoreNotFound = errors.New("daily score not found")

type DailyScoreRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, score *models.DailyScore) error
	GetByEntryRound(ctx context.Context, entryID, roundID int) (*models.DailyScore, error)
	ListByEntry(ctx context.Context, entryID int) ([]models.DailyScore, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.DailyScore, error)
}

type postgresDailyScoreRepository struct {
	db *sql.DB
}

func NewPostgresDailyScoreRepository(db *sql.DB) DailyScoreRepository {
	return &postgresDailyScoreRepository{db: db}
}

func (r *postgresDailyScoreRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Upsert replaces the score for (entry, round). Recalculation always lands on
// the same row, so totals never accumulate across runs.
func (r *postgresDailyScoreRepository) Upsert(ctx context.Context, exec SQLExecutor, score *models.DailyScore) error {
	executor := r.getExecutor(exec)

	breakdown, err := json.Marshal(score.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	query := `
		INSERT INTO daily_scores (entry_id, round_id, base_points, bonus_points, total_points, breakdown, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (entry_id, round_id) DO UPDATE SET
			base_points = EXCLUDED.base_points,
			bonus_points = EXCLUDED.bonus_points,
			total_points = EXCLUDED.total_points,
			breakdown = EXCLUDED.breakdown,
			calculated_at = now()
		RETURNING id, calculated_at`

	return executor.QueryRowContext(ctx, query,
		score.EntryID, score.RoundID, score.BasePoints, score.BonusPoints, score.TotalPoints, breakdown,
	).Scan(&score.ID, &score.CalculatedAt)
}

func (r *postgresDailyScoreRepository) GetByEntryRound(ctx context.Context, entryID, roundID int) (*models.DailyScore, error) {
	query := `
		SELECT id, entry_id, round_id, base_points, bonus_points, total_points, breakdown, calculated_at
		FROM daily_scores
		WHERE entry_id = $1 AND round_id = $2`

	row := r.db.QueryRowContext(ctx, query, entryID, roundID)
	score, err := scanDailyScore(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDailyScoreNotFound
		}
		return nil, err
	}
	return score, nil
}

func (r *postgresDailyScoreRepository) ListByEntry(ctx context.Context, entryID int) ([]models.DailyScore, error) {
	query := `
		SELECT id, entry_id, round_id, base_points, bonus_points, total_points, breakdown, calculated_at
		FROM daily_scores
		WHERE entry_id = $1
		ORDER BY round_id`
	return r.queryMany(ctx, query, entryID)
}

func (r *postgresDailyScoreRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.DailyScore, error) {
	query := `
		SELECT ds.id, ds.entry_id, ds.round_id, ds.base_points, ds.bonus_points, ds.total_points, ds.breakdown, ds.calculated_at
		FROM daily_scores ds
		JOIN entries e ON e.id = ds.entry_id
		WHERE e.tournament_id = $1
		ORDER BY ds.entry_id, ds.round_id`
	return r.queryMany(ctx, query, tournamentID)
}

func (r *postgresDailyScoreRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.DailyScore, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]models.DailyScore, 0)
	for rows.Next() {
		score, scanErr := scanDailyScore(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		scores = append(scores, *score)
	}
	return scores, rows.Err()
}

func scanDailyScore(row interface{ Scan(...interface{}) error }) (*models.DailyScore, error) {
	score := &models.DailyScore{}
	var breakdown []byte

	if err := row.Scan(
		&score.ID, &score.EntryID, &score.RoundID,
		&score.BasePoints, &score.BonusPoints, &score.TotalPoints,
		&breakdown, &score.CalculatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(breakdown, &score.Breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	return score, nil
}
