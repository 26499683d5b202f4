package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fairwayfive/golf-pool/models"
	"github.com/lib/pq"
)

var (
	ErrBonusPointNotFound   = errors.New("bonus point not found")
	ErrBonusPointInvalidRef = errors.New("bonus point references unknown tournament")
)

type ListBonusPointsFilter struct {
	TournamentID int
	RoundID      *int
	PlayerID     *string
}

type BonusPointRepository interface {
	Create(ctx context.Context, bp *models.BonusPoint) error
	GetByID(ctx context.Context, id int) (*models.BonusPoint, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter ListBonusPointsFilter) ([]models.BonusPoint, error)
}

type postgresBonusPointRepository struct {
	db *sql.DB
}

func NewPostgresBonusPointRepository(db *sql.DB) BonusPointRepository {
	return &postgresBonusPointRepository{db: db}
}

func (r *postgresBonusPointRepository) Create(ctx context.Context, bp *models.BonusPoint) error {
	query := `
		INSERT INTO bonus_points (tournament_id, round_id, player_id, kind, points, hole)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, awarded_at`

	err := r.db.QueryRowContext(ctx, query,
		bp.TournamentID, bp.RoundID, bp.PlayerID, bp.Kind, bp.Points, bp.Hole,
	).Scan(&bp.ID, &bp.AwardedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrBonusPointInvalidRef
	}
	return err
}

func (r *postgresBonusPointRepository) GetByID(ctx context.Context, id int) (*models.BonusPoint, error) {
	query := `
		SELECT id, tournament_id, round_id, player_id, kind, points, hole, awarded_at
		FROM bonus_points WHERE id = $1`

	bp := &models.BonusPoint{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&bp.ID, &bp.TournamentID, &bp.RoundID, &bp.PlayerID, &bp.Kind, &bp.Points, &bp.Hole, &bp.AwardedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBonusPointNotFound
		}
		return nil, err
	}
	return bp, nil
}

func (r *postgresBonusPointRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bonus_points WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBonusPointNotFound)
}

func (r *postgresBonusPointRepository) List(ctx context.Context, filter ListBonusPointsFilter) ([]models.BonusPoint, error) {
	query := `
		SELECT id, tournament_id, round_id, player_id, kind, points, hole, awarded_at
		FROM bonus_points
		WHERE tournament_id = $1`
	args := []interface{}{filter.TournamentID}
	argID := 2

	if filter.RoundID != nil {
		query += fmt.Sprintf(" AND round_id = $%d", argID)
		args = append(args, *filter.RoundID)
		argID++
	}
	if filter.PlayerID != nil {
		query += fmt.Sprintf(" AND player_id = $%d", argID)
		args = append(args, *filter.PlayerID)
	}
	query += ` ORDER BY round_id, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	awards := make([]models.BonusPoint, 0)
	for rows.Next() {
		var bp models.BonusPoint
		if scanErr := rows.Scan(
			&bp.ID, &bp.TournamentID, &bp.RoundID, &bp.PlayerID, &bp.Kind, &bp.Points, &bp.Hole, &bp.AwardedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		awards = append(awards, bp)
	}
	return awards, rows.Err()
}
