package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwayfive/golf-pool/models"
	"github.com/lib/pq"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, p *models.Player) error
	GetByExternalID(ctx context.Context, externalID string) (*models.Player, error)
	ListByExternalIDs(ctx context.Context, externalIDs []string) ([]models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Upsert inserts the player or refreshes the cached name fields.
func (r *postgresPlayerRepository) Upsert(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (external_id, first_name, last_name, full_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			full_name = EXCLUDED.full_name,
			updated_at = now()
		RETURNING id, updated_at`

	return executor.QueryRowContext(ctx, query,
		p.ExternalID, p.FirstName, p.LastName, p.FullName,
	).Scan(&p.ID, &p.UpdatedAt)
}

func (r *postgresPlayerRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Player, error) {
	executor := r.getExecutor(nil)
	query := `
		SELECT id, external_id, first_name, last_name, full_name, updated_at
		FROM players WHERE external_id = $1`

	p := &models.Player{}
	err := executor.QueryRowContext(ctx, query, externalID).Scan(
		&p.ID, &p.ExternalID, &p.FirstName, &p.LastName, &p.FullName, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) ListByExternalIDs(ctx context.Context, externalIDs []string) ([]models.Player, error) {
	if len(externalIDs) == 0 {
		return []models.Player{}, nil
	}
	executor := r.getExecutor(nil)
	query := `
		SELECT id, external_id, first_name, last_name, full_name, updated_at
		FROM players WHERE external_id = ANY($1)
		ORDER BY last_name, first_name`

	rows, err := executor.QueryContext(ctx, query, pq.Array(externalIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0, len(externalIDs))
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.ExternalID, &p.FirstName, &p.LastName, &p.FullName, &p.UpdatedAt); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
