package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/lib/pq"
)

func (r *postgresSwissStore) RegisterPlayer(ctx context.Context, tournamentID int, name string) (*models.Player, error) {
	p := &models.Player{
		TournamentID: tournamentID,
		Name:         name,
		Status:       models.PlayerStatusActive,
	}
	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO players (tournament_id, name, status)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`
		if err := tx.QueryRowContext(ctx, query, tournamentID, name, p.Status).Scan(&p.ID, &p.CreatedAt); err != nil {
			return handlePlayerError(err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO score_cards (tournament_id, player_id, score, matches, byes) VALUES ($1, $2, 0, 0, 0)`,
			tournamentID, p.ID)
		if err != nil {
			return fmt.Errorf("failed to create score card for player %d: %w", p.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresSwissStore) WithdrawPlayer(ctx context.Context, tournamentID, playerID int) error {
	query := `UPDATE players SET status = $1 WHERE id = $2 AND tournament_id = $3`
	result, err := r.db.ExecContext(ctx, query, models.PlayerStatusWithdrawn, playerID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to withdraw player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresSwissStore) ListPlayers(ctx context.Context, tournamentID int) ([]*models.Player, error) {
	query := `
		SELECT id, tournament_id, name, status, created_at
		FROM players
		WHERE tournament_id = $1
		ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p := &models.Player{}
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.Name, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresSwissStore) GetPlayerName(ctx context.Context, playerID int) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM players WHERE id = $1`, playerID).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrPlayerNotFound
		}
		return "", fmt.Errorf("failed to get name of player %d: %w", playerID, err)
	}
	return name, nil
}

func handlePlayerError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint == "players_tournament_id_fkey" {
		return ErrTournamentNotFound
	}
	return fmt.Errorf("failed to insert player: %w", err)
}
