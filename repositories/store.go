package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrScoreRecordNotFound = errors.New("score record not found")
	ErrMatchPlayersInvalid = errors.New("match players conflict or invalid")
)

// SwissStore is everything the pairing engine reads and writes. Every write
// is atomic: it either lands completely or not at all.
type SwissStore interface {
	CreateTournament(ctx context.Context, name string) (*models.Tournament, error)
	GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]*models.Tournament, error)
	// ResetTournament deletes the players, score cards and matches of a tournament.
	ResetTournament(ctx context.Context, tournamentID int) error

	// RegisterPlayer creates the player together with an empty score card.
	RegisterPlayer(ctx context.Context, tournamentID int, name string) (*models.Player, error)
	WithdrawPlayer(ctx context.Context, tournamentID, playerID int) error
	ListPlayers(ctx context.Context, tournamentID int) ([]*models.Player, error)
	GetPlayerName(ctx context.Context, playerID int) (string, error)

	GetScoreRecord(ctx context.Context, tournamentID, playerID int) (*models.ScoreRecord, error)
	ListScoreRecords(ctx context.Context, tournamentID int) ([]*models.ScoreRecord, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.MatchRecord, error)

	// ApplyByeCredit adds a bye: score +2, matches +1, byes +1.
	ApplyByeCredit(ctx context.Context, tournamentID, playerID int) error
	// ApplyMatchResult inserts the match row and updates both score cards.
	ApplyMatchResult(ctx context.Context, tournamentID int, result models.MatchResult) (*models.MatchRecord, error)
}
