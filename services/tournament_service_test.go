package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentService_CreateTournament(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  error
	}{
		{name: "trims the name", input: "  Friday Night  ", wantName: "Friday Night"},
		{name: "empty name", input: "", wantErr: ErrTournamentNameRequired},
		{name: "blank name", input: " \t ", wantErr: ErrTournamentNameRequired},
		{name: "too long", input: strings.Repeat("x", maxNameLength+1), wantErr: ErrNameTooLong},
		{name: "multibyte name at the limit", input: strings.Repeat("ё", maxNameLength), wantName: strings.Repeat("ё", maxNameLength)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTournamentService(newFakeStore(), nil, discardLogger())
			got, err := svc.CreateTournament(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrValidationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
		})
	}
}

func TestTournamentService_Players(t *testing.T) {
	ctx := context.Background()
	svc := NewTournamentService(newFakeStore(), nil, discardLogger())

	tournament, err := svc.CreateTournament(ctx, "Club Night")
	require.NoError(t, err)

	_, err = svc.RegisterPlayer(ctx, 404, "Alice")
	require.ErrorIs(t, err, ErrTournamentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RegisterPlayer(ctx, tournament.ID, "   ")
	require.ErrorIs(t, err, ErrPlayerNameRequired)

	alice, err := svc.RegisterPlayer(ctx, tournament.ID, "Alice")
	require.NoError(t, err)
	_, err = svc.RegisterPlayer(ctx, tournament.ID, "Bob")
	require.NoError(t, err)

	require.NoError(t, svc.WithdrawPlayer(ctx, tournament.ID, alice.ID))
	require.ErrorIs(t, svc.WithdrawPlayer(ctx, tournament.ID, alice.ID), ErrPlayerWithdrawn)
	require.ErrorIs(t, svc.WithdrawPlayer(ctx, tournament.ID, 999), ErrPlayerNotFound)
	require.ErrorIs(t, svc.WithdrawPlayer(ctx, tournament.ID, 0), ErrInvalidPlayerID)

	count, err := svc.CountPlayers(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, &PlayerCount{Registered: 2, Active: 1}, count)

	_, err = svc.CountPlayers(ctx, 404)
	require.ErrorIs(t, err, ErrTournamentNotFound)

	players, err := svc.ListPlayers(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, models.PlayerStatusWithdrawn, players[0].Status)
}

func TestTournamentService_ResetTournament(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	store := newFakeStore()
	svc := NewTournamentService(store, notifier, discardLogger())

	tournament, err := svc.CreateTournament(ctx, "Reset Me")
	require.NoError(t, err)
	a, err := svc.RegisterPlayer(ctx, tournament.ID, "Alice")
	require.NoError(t, err)
	b, err := svc.RegisterPlayer(ctx, tournament.ID, "Bob")
	require.NoError(t, err)
	_, err = store.ApplyMatchResult(ctx, tournament.ID, models.MatchResult{WinnerID: a.ID, LoserID: b.ID})
	require.NoError(t, err)

	require.NoError(t, svc.ResetTournament(ctx, tournament.ID))

	count, err := svc.CountPlayers(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Zero(t, count.Registered)
	matches, err := store.ListMatches(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)

	assert.Equal(t, []string{brackets.EventTournamentReset}, notifier.Types())
	assert.Equal(t, tournament.ID, notifier.Last().TournamentID)

	require.ErrorIs(t, svc.ResetTournament(ctx, 404), ErrTournamentNotFound)
	assert.Len(t, notifier.Types(), 1)
}

func TestTournamentService_StoreFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	boom := errors.New("connection reset")
	store.ListPlayersFunc = func(context.Context, int) ([]*models.Player, error) { return nil, boom }
	svc := NewTournamentService(store, nil, discardLogger())

	tournament, err := svc.CreateTournament(ctx, "Flaky")
	require.NoError(t, err)

	_, err = svc.ListPlayers(ctx, tournament.ID)
	require.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, boom)
}

func TestTournamentService_ListTournaments(t *testing.T) {
	ctx := context.Background()
	svc := NewTournamentService(newFakeStore(), nil, discardLogger())

	empty, err := svc.ListTournaments(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first, err := svc.CreateTournament(ctx, "One")
	require.NoError(t, err)
	_, err = svc.CreateTournament(ctx, "Two")
	require.NoError(t, err)

	all, err := svc.ListTournaments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "One", all[0].Name)

	got, err := svc.GetTournament(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	_, err = svc.GetTournament(ctx, 404)
	require.ErrorIs(t, err, ErrNotFound)
}
