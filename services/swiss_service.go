package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// RoundPublisher stores a paired round somewhere public and returns its URL.
type RoundPublisher interface {
	Publish(ctx context.Context, round *models.Round) (string, error)
}

type SwissService interface {
	// PlayerStandings ranks every registered player of the tournament.
	PlayerStandings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	// AssignBye pairs a round for an odd active field: the best ranked player
	// without a bye is credited and everybody else is paired. The bye never
	// exists apart from its round.
	AssignBye(ctx context.Context, tournamentID int) (*models.Round, error)
	// SwissPairings produces the next round. A bye, when needed, is only
	// credited after every other active player has been paired.
	SwissPairings(ctx context.Context, tournamentID int) (*models.Round, error)
	ReportMatch(ctx context.Context, tournamentID int, result models.MatchResult) (*models.MatchRecord, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.MatchRecord, error)
}

type swissService struct {
	store     repositories.SwissStore
	generator brackets.RoundGenerator
	notifier  TournamentNotifier
	publisher RoundPublisher // optional
	metrics   *metrics.SwissMetrics
	logger    *slog.Logger
}

func NewSwissService(
	store repositories.SwissStore,
	generator brackets.RoundGenerator,
	notifier TournamentNotifier,
	publisher RoundPublisher,
	swissMetrics *metrics.SwissMetrics,
	logger *slog.Logger,
) SwissService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &swissService{
		store:     store,
		generator: generator,
		notifier:  notifier,
		publisher: publisher,
		metrics:   swissMetrics,
		logger:    logger,
	}
}

func (s *swissService) PlayerStandings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	standings, _, err := s.loadStandings(ctx, tournamentID)
	return standings, err
}

// loadStandings reads everything from the store; nothing is cached between calls.
func (s *swissService) loadStandings(ctx context.Context, tournamentID int) ([]models.Standing, *brackets.MatchHistory, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, nil, handleRepositoryError(err)
	}
	players, err := s.store.ListPlayers(ctx, tournamentID)
	if err != nil {
		return nil, nil, handleRepositoryError(err)
	}
	if len(players) == 0 {
		return []models.Standing{}, brackets.NewMatchHistory(nil), nil
	}
	cards, err := s.store.ListScoreRecords(ctx, tournamentID)
	if err != nil {
		return nil, nil, handleRepositoryError(err)
	}
	matches, err := s.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, nil, handleRepositoryError(err)
	}
	history := brackets.NewMatchHistory(matches)
	return brackets.RankStandings(players, cards, history), history, nil
}

func (s *swissService) AssignBye(ctx context.Context, tournamentID int) (*models.Round, error) {
	standings, history, err := s.loadStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(brackets.ActiveStandings(standings))%2 == 0 {
		return nil, ErrByeNotRequired
	}
	return s.pairRound(ctx, tournamentID, standings, history)
}

func (s *swissService) SwissPairings(ctx context.Context, tournamentID int) (*models.Round, error) {
	standings, history, err := s.loadStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return s.pairRound(ctx, tournamentID, standings, history)
}

// pairRound runs the generator and only then credits the bye, so a round
// that cannot be paired writes nothing.
func (s *swissService) pairRound(ctx context.Context, tournamentID int, standings []models.Standing, history *brackets.MatchHistory) (*models.Round, error) {
	plan, err := s.generator.GenerateRound(ctx, brackets.GenerateRoundParams{
		TournamentID: tournamentID,
		Standings:    standings,
		History:      history,
	})
	if err != nil {
		s.metrics.PairingFailed(pairingFailureReason(err))
		s.logger.Warn("round could not be paired",
			slog.Int("tournament_id", tournamentID),
			slog.String("generator", s.generator.GetName()),
			slog.Any("error", err),
		)
		return nil, err
	}

	round := &models.Round{
		TournamentID: tournamentID,
		Pairings:     plan.Pairings,
		Standings:    standings,
	}
	if plan.Bye != nil {
		round.Bye, err = s.creditBye(ctx, tournamentID, *plan.Bye)
		if err != nil {
			return nil, err
		}
	}

	if s.publisher != nil {
		url, pubErr := s.publisher.Publish(ctx, round)
		if pubErr != nil {
			// A missing sheet does not fail the round.
			s.logger.Error("failed to publish round sheet", slog.Int("tournament_id", tournamentID), slog.Any("error", pubErr))
		} else {
			round.SheetURL = url
		}
	}

	s.metrics.RoundPaired(len(round.Pairings))
	s.logger.Info("round paired",
		slog.Int("tournament_id", tournamentID),
		slog.Int("boards", len(round.Pairings)),
		slog.Bool("bye", round.Bye != nil),
	)
	s.notifier.PublishTournamentEvent(tournamentID, brackets.EventRoundPaired, round)
	return round, nil
}

func pairingFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrExhaustedByes):
		return "exhausted_byes"
	case errors.Is(err, ErrNoValidPairing):
		return "no_valid_pairing"
	default:
		return "other"
	}
}

type matchReportedPayload struct {
	Match      *models.MatchRecord `json:"match"`
	WinnerName string              `json:"winner_name"`
	LoserName  string              `json:"loser_name"`
}

func (s *swissService) ReportMatch(ctx context.Context, tournamentID int, result models.MatchResult) (*models.MatchRecord, error) {
	if result.WinnerID <= 0 || result.LoserID <= 0 {
		return nil, ErrInvalidPlayerID
	}
	if result.WinnerID == result.LoserID {
		return nil, ErrSelfMatch
	}
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	for _, playerID := range []int{result.WinnerID, result.LoserID} {
		if _, err := s.store.GetScoreRecord(ctx, tournamentID, playerID); err != nil {
			return nil, fmt.Errorf("%w: id %d", handleRepositoryError(err), playerID)
		}
	}

	record, err := s.store.ApplyMatchResult(ctx, tournamentID, result)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	s.metrics.MatchReported(result.Draw)
	s.logger.Info("match reported",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", record.ID),
		slog.Int("winner_id", record.WinnerID),
		slog.Int("loser_id", record.LoserID),
		slog.Bool("draw", record.Draw),
	)

	payload := matchReportedPayload{Match: record}
	payload.WinnerName = s.playerName(ctx, record.WinnerID)
	payload.LoserName = s.playerName(ctx, record.LoserID)
	s.notifier.PublishTournamentEvent(tournamentID, brackets.EventMatchReported, payload)
	return record, nil
}

// playerName is best effort; the event goes out with an empty name on failure.
func (s *swissService) playerName(ctx context.Context, playerID int) string {
	name, err := s.store.GetPlayerName(ctx, playerID)
	if err != nil {
		s.logger.Warn("failed to look up player name for event",
			slog.Int("player_id", playerID),
			slog.Any("error", err),
		)
		return ""
	}
	return name
}

func (s *swissService) ListMatches(ctx context.Context, tournamentID int) ([]*models.MatchRecord, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return matches, nil
}
