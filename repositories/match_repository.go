package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/lib/pq"
)

func (r *postgresSwissStore) ListMatches(ctx context.Context, tournamentID int) ([]*models.MatchRecord, error) {
	query := `
		SELECT id, tournament_id, winner_id, loser_id, draw, created_at
		FROM matches
		WHERE tournament_id = $1
		ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.MatchRecord, 0)
	for rows.Next() {
		m := &models.MatchRecord{}
		if err := rows.Scan(&m.ID, &m.TournamentID, &m.WinnerID, &m.LoserID, &m.Draw, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresSwissStore) ApplyMatchResult(ctx context.Context, tournamentID int, result models.MatchResult) (*models.MatchRecord, error) {
	record := &models.MatchRecord{
		TournamentID: tournamentID,
		WinnerID:     result.WinnerID,
		LoserID:      result.LoserID,
		Draw:         result.Draw,
	}
	winnerPoints, loserPoints := result.Points()

	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO matches (tournament_id, winner_id, loser_id, draw)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`
		err := tx.QueryRowContext(ctx, query, tournamentID, result.WinnerID, result.LoserID, result.Draw).
			Scan(&record.ID, &record.CreatedAt)
		if err != nil {
			return handleMatchError(err)
		}
		if err := addToScoreCard(ctx, tx, tournamentID, result.WinnerID, winnerPoints, 0); err != nil {
			return err
		}
		return addToScoreCard(ctx, tx, tournamentID, result.LoserID, loserPoints, 0)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func handleMatchError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrTournamentNotFound
		case "matches_winner_id_fkey", "matches_loser_id_fkey":
			return ErrPlayerNotFound
		case "matches_distinct_players":
			return ErrMatchPlayersInvalid
		}
	}
	return fmt.Errorf("failed to insert match: %w", err)
}
