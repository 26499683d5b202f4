package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fairwayfive/golf-pool/models"
)

type ListRankingSnapshotsFilter struct {
	TournamentID int
	EntryID      *int
	RoundID      *int
	Limit        int
}

type RankingSnapshotRepository interface {
	BatchInsert(ctx context.Context, exec SQLExecutor, snapshots []models.RankingSnapshot) error
	List(ctx context.Context, filter ListRankingSnapshotsFilter) ([]models.RankingSnapshot, error)
}

type postgresRankingSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresRankingSnapshotRepository(db *sql.DB) RankingSnapshotRepository {
	return &postgresRankingSnapshotRepository{db: db}
}

func (r *postgresRankingSnapshotRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// BatchInsert appends one standing record per entry, all stamped with the same
// recorded_at so a whole standings read groups cleanly.
func (r *postgresRankingSnapshotRepository) BatchInsert(ctx context.Context, exec SQLExecutor, snapshots []models.RankingSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)

	query := `
		INSERT INTO ranking_snapshots (tournament_id, entry_id, round_id, position, total_points, points_behind_leader, recorded_at)
		VALUES `
	args := make([]interface{}, 0, len(snapshots)*6)
	for i, s := range snapshots {
		if i > 0 {
			query += ", "
		}
		base := i * 6
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, now())",
			base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, s.TournamentID, s.EntryID, s.RoundID, s.Position, s.TotalPoints, s.PointsBehindLeader)
	}

	_, err := executor.ExecContext(ctx, query, args...)
	return err
}

func (r *postgresRankingSnapshotRepository) List(ctx context.Context, filter ListRankingSnapshotsFilter) ([]models.RankingSnapshot, error) {
	query := `
		SELECT id, tournament_id, entry_id, round_id, position, total_points, points_behind_leader, recorded_at
		FROM ranking_snapshots
		WHERE tournament_id = $1`
	args := []interface{}{filter.TournamentID}
	argID := 2

	if filter.EntryID != nil {
		query += fmt.Sprintf(" AND entry_id = $%d", argID)
		args = append(args, *filter.EntryID)
		argID++
	}
	if filter.RoundID != nil {
		query += fmt.Sprintf(" AND round_id = $%d", argID)
		args = append(args, *filter.RoundID)
		argID++
	}
	query += " ORDER BY recorded_at, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]models.RankingSnapshot, 0)
	for rows.Next() {
		var s models.RankingSnapshot
		if scanErr := rows.Scan(
			&s.ID, &s.TournamentID, &s.EntryID, &s.RoundID,
			&s.Position, &s.TotalPoints, &s.PointsBehindLeader, &s.RecordedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
