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
	ErrEntryNotFound         = errors.New("entry not found")
	ErrEntryInvalidReference = errors.New("entry references unknown participant or tournament")
)

type EntryRepository interface {
	Create(ctx context.Context, e *models.Entry) error
	GetByID(ctx context.Context, id int) (*models.Entry, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Entry, error)
	AddRebuy(ctx context.Context, rebuy *models.Rebuy) error
	SetWeekendBonus(ctx context.Context, exec SQLExecutor, entryID int, earned, forfeited bool) error
}

type postgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) EntryRepository {
	return &postgresEntryRepository{db: db}
}

func (r *postgresEntryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const entryColumns = `
	id, participant_id, tournament_id,
	player1_id, player2_id, player3_id, player4_id, player5_id, player6_id,
	weekend_bonus_earned, weekend_bonus_forfeited, created_at, updated_at`

func scanEntry(row interface{ Scan(...interface{}) error }, e *models.Entry) error {
	return row.Scan(
		&e.ID, &e.ParticipantID, &e.TournamentID,
		&e.Player1ID, &e.Player2ID, &e.Player3ID, &e.Player4ID, &e.Player5ID, &e.Player6ID,
		&e.WeekendBonusEarned, &e.WeekendBonusForfeited, &e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *postgresEntryRepository) Create(ctx context.Context, e *models.Entry) error {
	query := `
		INSERT INTO entries (
			participant_id, tournament_id,
			player1_id, player2_id, player3_id, player4_id, player5_id, player6_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		e.ParticipantID, e.TournamentID,
		e.Player1ID, e.Player2ID, e.Player3ID, e.Player4ID, e.Player5ID, e.Player6ID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrEntryInvalidReference
	}
	return err
}

func (r *postgresEntryRepository) GetByID(ctx context.Context, id int) (*models.Entry, error) {
	query := `SELECT` + entryColumns + ` FROM entries WHERE id = $1`

	e := &models.Entry{}
	err := scanEntry(r.db.QueryRowContext(ctx, query, id), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	rebuys, err := r.rebuysForEntries(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	e.Rebuys = rebuys[id]
	return e, nil
}

// ListByTournament returns all entries with their rebuy logs loaded.
func (r *postgresEntryRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Entry, error) {
	query := `SELECT` + entryColumns + ` FROM entries WHERE tournament_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.Entry, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var e models.Entry
		if scanErr := scanEntry(rows, &e); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, e)
		ids = append(ids, e.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	rebuys, err := r.rebuysForEntries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rebuys = rebuys[entries[i].ID]
	}
	return entries, nil
}

func (r *postgresEntryRepository) rebuysForEntries(ctx context.Context, entryIDs []int) (map[int][]models.Rebuy, error) {
	out := make(map[int][]models.Rebuy, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT id, entry_id, original_player_id, replacement_player_id, reason, effective_round, created_at
		FROM entry_rebuys
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(entryIDs))
	if err != nil {
		return nil, fmt.Errorf("load rebuys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rb models.Rebuy
		if scanErr := rows.Scan(
			&rb.ID, &rb.EntryID, &rb.OriginalPlayerID, &rb.ReplacementPlayerID,
			&rb.Reason, &rb.EffectiveRound, &rb.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		out[rb.EntryID] = append(out[rb.EntryID], rb)
	}
	return out, rows.Err()
}

// AddRebuy appends one substitution event. The log is never updated in place.
func (r *postgresEntryRepository) AddRebuy(ctx context.Context, rebuy *models.Rebuy) error {
	query := `
		INSERT INTO entry_rebuys (entry_id, original_player_id, replacement_player_id, reason, effective_round)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		rebuy.EntryID, rebuy.OriginalPlayerID, rebuy.ReplacementPlayerID,
		rebuy.Reason, rebuy.EffectiveRound,
	).Scan(&rebuy.ID, &rebuy.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrEntryNotFound
	}
	return err
}

func (r *postgresEntryRepository) SetWeekendBonus(ctx context.Context, exec SQLExecutor, entryID int, earned, forfeited bool) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE entries SET weekend_bonus_earned = $1, weekend_bonus_forfeited = $2, updated_at = now()
		WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, earned, forfeited, entryID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}
