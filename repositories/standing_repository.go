package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

func (r *postgresSwissStore) GetScoreRecord(ctx context.Context, tournamentID, playerID int) (*models.ScoreRecord, error) {
	query := `
		SELECT tournament_id, player_id, score, matches, byes
		FROM score_cards
		WHERE tournament_id = $1 AND player_id = $2`
	sc := &models.ScoreRecord{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, playerID).
		Scan(&sc.TournamentID, &sc.PlayerID, &sc.Score, &sc.Matches, &sc.Byes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan score card t:%d p:%d: %w", tournamentID, playerID, err)
	}
	return sc, nil
}

func (r *postgresSwissStore) ListScoreRecords(ctx context.Context, tournamentID int) ([]*models.ScoreRecord, error) {
	query := `
		SELECT tournament_id, player_id, score, matches, byes
		FROM score_cards
		WHERE tournament_id = $1
		ORDER BY player_id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query score cards for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	cards := make([]*models.ScoreRecord, 0)
	for rows.Next() {
		sc := &models.ScoreRecord{}
		if err := rows.Scan(&sc.TournamentID, &sc.PlayerID, &sc.Score, &sc.Matches, &sc.Byes); err != nil {
			return nil, fmt.Errorf("failed to scan score card row: %w", err)
		}
		cards = append(cards, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during score card rows iteration: %w", err)
	}
	return cards, nil
}

// ApplyByeCredit is a single UPDATE, so it is atomic without a transaction.
func (r *postgresSwissStore) ApplyByeCredit(ctx context.Context, tournamentID, playerID int) error {
	return addToScoreCard(ctx, r.db, tournamentID, playerID, models.PointsBye, 1)
}

func addToScoreCard(ctx context.Context, exec SQLExecutor, tournamentID, playerID, points, byes int) error {
	query := `
		UPDATE score_cards
		SET score = score + $1, matches = matches + 1, byes = byes + $2
		WHERE tournament_id = $3 AND player_id = $4`
	result, err := exec.ExecContext(ctx, query, points, byes, tournamentID, playerID)
	if err != nil {
		return fmt.Errorf("failed to update score card t:%d p:%d: %w", tournamentID, playerID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
