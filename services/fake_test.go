package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// fakeStore delegates to an in-memory store unless a Func override is set.
type fakeStore struct {
	repositories.SwissStore

	ListPlayersFunc      func(ctx context.Context, tournamentID int) ([]*models.Player, error)
	ListMatchesFunc      func(ctx context.Context, tournamentID int) ([]*models.MatchRecord, error)
	ApplyByeCreditFunc   func(ctx context.Context, tournamentID, playerID int) error
	ApplyMatchResultFunc func(ctx context.Context, tournamentID int, result models.MatchResult) (*models.MatchRecord, error)
	GetPlayerNameFunc    func(ctx context.Context, playerID int) (string, error)
}

func newFakeStore() *fakeStore {
	return &fakeStore{SwissStore: repositories.NewMemorySwissStore()}
}

func (f *fakeStore) ListPlayers(ctx context.Context, tournamentID int) ([]*models.Player, error) {
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, tournamentID)
	}
	return f.SwissStore.ListPlayers(ctx, tournamentID)
}

func (f *fakeStore) ListMatches(ctx context.Context, tournamentID int) ([]*models.MatchRecord, error) {
	if f.ListMatchesFunc != nil {
		return f.ListMatchesFunc(ctx, tournamentID)
	}
	return f.SwissStore.ListMatches(ctx, tournamentID)
}

func (f *fakeStore) ApplyByeCredit(ctx context.Context, tournamentID, playerID int) error {
	if f.ApplyByeCreditFunc != nil {
		return f.ApplyByeCreditFunc(ctx, tournamentID, playerID)
	}
	return f.SwissStore.ApplyByeCredit(ctx, tournamentID, playerID)
}

func (f *fakeStore) ApplyMatchResult(ctx context.Context, tournamentID int, result models.MatchResult) (*models.MatchRecord, error) {
	if f.ApplyMatchResultFunc != nil {
		return f.ApplyMatchResultFunc(ctx, tournamentID, result)
	}
	return f.SwissStore.ApplyMatchResult(ctx, tournamentID, result)
}

func (f *fakeStore) GetPlayerName(ctx context.Context, playerID int) (string, error) {
	if f.GetPlayerNameFunc != nil {
		return f.GetPlayerNameFunc(ctx, playerID)
	}
	return f.SwissStore.GetPlayerName(ctx, playerID)
}

type publishedEvent struct {
	TournamentID int
	Type         string
	Payload      interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *recordingNotifier) PublishTournamentEvent(tournamentID int, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{TournamentID: tournamentID, Type: eventType, Payload: payload})
}

func (n *recordingNotifier) Types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]string, 0, len(n.events))
	for _, e := range n.events {
		types = append(types, e.Type)
	}
	return types
}

func (n *recordingNotifier) Last() publishedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type fakePublisher struct {
	PublishFunc func(ctx context.Context, round *models.Round) (string, error)
	calls       int
}

func (p *fakePublisher) Publish(ctx context.Context, round *models.Round) (string, error) {
	p.calls++
	if p.PublishFunc != nil {
		return p.PublishFunc(ctx, round)
	}
	return "https://sheets.example.com/round.json", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
