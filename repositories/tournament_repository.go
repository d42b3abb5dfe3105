package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

func (r *postgresSwissStore) CreateTournament(ctx context.Context, name string) (*models.Tournament, error) {
	t := &models.Tournament{Name: name}
	query := `INSERT INTO tournaments (name) VALUES ($1) RETURNING id, created_at`
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&t.ID, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert tournament %q: %w", name, err)
	}
	return t, nil
}

func (r *postgresSwissStore) GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	return getTournament(ctx, r.db, tournamentID)
}

func getTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.Tournament, error) {
	query := `SELECT id, name, created_at FROM tournaments WHERE id = $1`
	t := &models.Tournament{}
	err := exec.QueryRowContext(ctx, query, tournamentID).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", tournamentID, err)
	}
	return t, nil
}

func (r *postgresSwissStore) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM tournaments ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t := &models.Tournament{}
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresSwissStore) ResetTournament(ctx context.Context, tournamentID int) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := getTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		for _, query := range []string{
			`DELETE FROM matches WHERE tournament_id = $1`,
			`DELETE FROM score_cards WHERE tournament_id = $1`,
			`DELETE FROM players WHERE tournament_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, query, tournamentID); err != nil {
				return fmt.Errorf("failed to reset tournament %d: %w", tournamentID, err)
			}
		}
		return nil
	})
}
