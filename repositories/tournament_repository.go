package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwayfive/golf-pool/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentConflict = errors.New("tournament already exists for this year")
)

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetByExternalID(ctx context.Context, year int, externalID string) (*models.Tournament, error)
	List(ctx context.Context, year *int) ([]models.Tournament, error)
	UpdateFromProvider(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, year, external_id, org_id, name, start_date, end_date,
	status, current_round, created_at, updated_at`

func scanTournament(row interface{ Scan(...interface{}) error }, t *models.Tournament) error {
	return row.Scan(
		&t.ID, &t.Year, &t.ExternalID, &t.OrgID, &t.Name, &t.StartDate, &t.EndDate,
		&t.Status, &t.CurrentRound, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	executor := r.getExecutor(nil)
	query := `
		INSERT INTO tournaments (year, external_id, org_id, name, start_date, end_date, status, current_round)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		t.Year, t.ExternalID, t.OrgID, t.Name, t.StartDate, t.EndDate, t.Status, t.CurrentRound,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrTournamentConflict
	}
	return err
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := scanTournament(executor.QueryRowContext(ctx, query, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByExternalID(ctx context.Context, year int, externalID string) (*models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE year = $1 AND external_id = $2`

	t := &models.Tournament{}
	err := scanTournament(executor.QueryRowContext(ctx, query, year, externalID), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, year *int) ([]models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `SELECT` + tournamentColumns + ` FROM tournaments`
	args := []interface{}{}
	if year != nil {
		query += ` WHERE year = $1`
		args = append(args, *year)
	}
	query += ` ORDER BY start_date DESC, id DESC`

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

// UpdateFromProvider refreshes the provider-owned fields of a tournament.
func (r *postgresTournamentRepository) UpdateFromProvider(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments SET
			name = $1, start_date = $2, end_date = $3,
			status = $4, current_round = $5, updated_at = now()
		WHERE id = $6`

	result, err := executor.ExecContext(ctx, query,
		t.Name, t.StartDate, t.EndDate, t.Status, t.CurrentRound, t.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
