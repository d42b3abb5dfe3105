package brackets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- hub.Run(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, errc
}

func TestHub_PublishTournamentEvent(t *testing.T) {
	hub, _, _ := newTestHub(t)

	watcher := &Client{Hub: hub, Send: make(chan []byte, 4), Room: TournamentRoom(7)}
	other := &Client{Hub: hub, Send: make(chan []byte, 4), Room: TournamentRoom(8)}
	require.True(t, hub.Join(watcher))
	require.True(t, hub.Join(other))
	require.Eventually(t, func() bool {
		return hub.ClientCount(TournamentRoom(7)) == 1 && hub.ClientCount(TournamentRoom(8)) == 1
	}, time.Second, 10*time.Millisecond)

	hub.PublishTournamentEvent(7, EventRoundPaired, map[string]int{"boards": 3})

	select {
	case raw := <-watcher.Send:
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]int `json:"payload"`
			RoomID  string         `json:"room_id"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, EventRoundPaired, msg.Type)
		assert.Equal(t, "tournament_7", msg.RoomID)
		assert.Equal(t, 3, msg.Payload["boards"])
	case <-time.After(time.Second):
		t.Fatal("watcher did not receive the event")
	}
	assert.Empty(t, other.Send)
}

func TestHub_FullBufferDropsMessage(t *testing.T) {
	hub, _, _ := newTestHub(t)

	slow := &Client{Hub: hub, Send: make(chan []byte, 1), Room: TournamentRoom(1)}
	require.True(t, hub.Join(slow))
	require.Eventually(t, func() bool { return hub.ClientCount(TournamentRoom(1)) == 1 }, time.Second, 10*time.Millisecond)

	hub.PublishTournamentEvent(1, EventMatchReported, "first")
	hub.PublishTournamentEvent(1, EventMatchReported, "second")

	assert.Len(t, slow.Send, 1)
}

func TestHub_Leave(t *testing.T) {
	hub, _, _ := newTestHub(t)

	c := &Client{Hub: hub, Send: make(chan []byte, 1), Room: TournamentRoom(2)}
	require.True(t, hub.Join(c))
	require.Eventually(t, func() bool { return hub.ClientCount(TournamentRoom(2)) == 1 }, time.Second, 10*time.Millisecond)

	hub.leave(c)
	require.Eventually(t, func() bool { return hub.ClientCount(TournamentRoom(2)) == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_RunStopsWithContext(t *testing.T) {
	hub, cancel, errc := newTestHub(t)

	c := &Client{Hub: hub, Send: make(chan []byte, 1), Room: TournamentRoom(3)}
	require.True(t, hub.Join(c))

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	_, open := <-c.Send
	assert.False(t, open)
	assert.False(t, hub.Join(&Client{Hub: hub, Send: make(chan []byte), Room: TournamentRoom(3)}))
	hub.leave(c)
}
