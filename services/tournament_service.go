package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// TournamentNotifier pushes live updates to the watchers of a tournament.
type TournamentNotifier interface {
	PublishTournamentEvent(tournamentID int, eventType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) PublishTournamentEvent(int, string, interface{}) {}

type TournamentService interface {
	CreateTournament(ctx context.Context, name string) (*models.Tournament, error)
	GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]*models.Tournament, error)
	// ResetTournament removes all players, score cards and matches.
	ResetTournament(ctx context.Context, tournamentID int) error

	RegisterPlayer(ctx context.Context, tournamentID int, name string) (*models.Player, error)
	WithdrawPlayer(ctx context.Context, tournamentID, playerID int) error
	ListPlayers(ctx context.Context, tournamentID int) ([]*models.Player, error)
	CountPlayers(ctx context.Context, tournamentID int) (*PlayerCount, error)
}

type PlayerCount struct {
	Registered int `json:"registered"`
	Active     int `json:"active"`
}

type tournamentService struct {
	store    repositories.SwissStore
	notifier TournamentNotifier
	logger   *slog.Logger
}

func NewTournamentService(store repositories.SwissStore, notifier TournamentNotifier, logger *slog.Logger) TournamentService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &tournamentService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, name string) (*models.Tournament, error) {
	name, err := normalizeName(name, ErrTournamentNameRequired)
	if err != nil {
		return nil, err
	}
	t, err := s.store.CreateTournament(ctx, name)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.Info("tournament created", slog.Int("tournament_id", t.ID), slog.String("name", t.Name))
	return t, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	tournaments, err := s.store.ListTournaments(ctx)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return tournaments, nil
}

func (s *tournamentService) ResetTournament(ctx context.Context, tournamentID int) error {
	if err := s.store.ResetTournament(ctx, tournamentID); err != nil {
		return handleRepositoryError(err)
	}
	s.logger.Warn("tournament reset", slog.Int("tournament_id", tournamentID))
	s.notifier.PublishTournamentEvent(tournamentID, brackets.EventTournamentReset, map[string]int{"tournament_id": tournamentID})
	return nil
}

func (s *tournamentService) RegisterPlayer(ctx context.Context, tournamentID int, name string) (*models.Player, error) {
	name, err := normalizeName(name, ErrPlayerNameRequired)
	if err != nil {
		return nil, err
	}
	p, err := s.store.RegisterPlayer(ctx, tournamentID, name)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.Info("player registered",
		slog.Int("tournament_id", tournamentID),
		slog.Int("player_id", p.ID),
		slog.String("name", p.Name),
	)
	return p, nil
}

func (s *tournamentService) WithdrawPlayer(ctx context.Context, tournamentID, playerID int) error {
	if playerID <= 0 {
		return ErrInvalidPlayerID
	}
	players, err := s.ListPlayers(ctx, tournamentID)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(players, func(p *models.Player) bool { return p.ID == playerID })
	if idx < 0 {
		return ErrPlayerNotFound
	}
	if !players[idx].IsActive() {
		return ErrPlayerWithdrawn
	}
	if err := s.store.WithdrawPlayer(ctx, tournamentID, playerID); err != nil {
		return handleRepositoryError(err)
	}
	s.logger.Info("player withdrawn", slog.Int("tournament_id", tournamentID), slog.Int("player_id", playerID))
	return nil
}

func (s *tournamentService) ListPlayers(ctx context.Context, tournamentID int) ([]*models.Player, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	players, err := s.store.ListPlayers(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return players, nil
}

func (s *tournamentService) CountPlayers(ctx context.Context, tournamentID int) (*PlayerCount, error) {
	players, err := s.ListPlayers(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	count := &PlayerCount{Registered: len(players)}
	for _, p := range players {
		if p.IsActive() {
			count.Active++
		}
	}
	return count, nil
}
