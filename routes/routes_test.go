package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/routes"
	"github.com/Dosada05/swiss-tournament/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "routes-test-secret"

type apiClient struct {
	t     *testing.T
	base  string
	token string
	hub   *brackets.Hub
}

func (c *apiClient) do(method, path string, body interface{}, auth bool) (int, map[string]json.RawMessage) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	out := map[string]json.RawMessage{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(bytes.TrimSpace(data)) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func newServer(t *testing.T) (*httptest.Server, *apiClient) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := brackets.NewHub(logger)
	go func() { _ = hub.Run(ctx) }()

	registry := prometheus.NewRegistry()
	store := repositories.NewMemorySwissStore()
	tournamentService := services.NewTournamentService(store, hub, logger)
	swissService := services.NewSwissService(store, brackets.NewSwissGenerator(0), hub, nil, metrics.NewSwissMetrics(registry), logger)

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Options{
		JWTSecretKey:       secret,
		CORSAllowedOrigins: []string{"*"},
		Gatherer:           registry,
		Logger:             logger,
	},
		handlers.NewTournamentHandler(tournamentService, logger),
		handlers.NewSwissHandler(swissService, logger),
		handlers.NewWebSocketHandler(hub, tournamentService, []string{"*"}, logger),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	token, err := middleware.IssueToken(secret, 1, middleware.RoleOrganizer, time.Hour)
	require.NoError(t, err)
	return server, &apiClient{t: t, base: server.URL, token: token, hub: hub}
}

type idResponse struct {
	ID int `json:"id"`
}

func TestRoutes_TournamentFlow(t *testing.T) {
	server, api := newServer(t)

	status, _ := api.do(http.MethodPost, "/api/v1/tournaments", map[string]string{"name": "Open"}, false)
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := api.do(http.MethodPost, "/api/v1/tournaments", map[string]string{"name": "Open"}, true)
	require.Equal(t, http.StatusCreated, status)
	tournament := decode[idResponse](t, body["tournament"])

	status, _ = api.do(http.MethodPost, "/api/v1/tournaments", map[string]string{"name": " "}, true)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = api.do(http.MethodPost, "/api/v1/tournaments", map[string]string{"title": "x"}, true)
	assert.Equal(t, http.StatusBadRequest, status)

	base := "/api/v1/tournaments/" + itoa(tournament.ID)

	ids := map[string]int{}
	for _, name := range []string{"A", "B", "C", "D"} {
		status, body := api.do(http.MethodPost, base+"/players", map[string]string{"name": name}, true)
		require.Equal(t, http.StatusCreated, status)
		ids[name] = decode[idResponse](t, body["player"]).ID
	}

	status, body = api.do(http.MethodGet, base+"/players/count", nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, services.PlayerCount{Registered: 4, Active: 4}, decode[services.PlayerCount](t, body["count"]))

	for _, m := range [][2]string{{"A", "C"}, {"B", "D"}} {
		status, _ := api.do(http.MethodPost, base+"/matches", map[string]int{"winner_id": ids[m[0]], "loser_id": ids[m[1]]}, true)
		require.Equal(t, http.StatusCreated, status)
	}
	status, _ = api.do(http.MethodPost, base+"/matches", map[string]int{"winner_id": ids["A"], "loser_id": ids["A"]}, true)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = api.do(http.MethodPost, base+"/matches", map[string]int{"winner_id": ids["A"], "loser_id": 999}, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = api.do(http.MethodGet, base+"/matches", nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]json.RawMessage](t, body["matches"]), 2)

	status, body = api.do(http.MethodGet, base+"/standings", nil, false)
	require.Equal(t, http.StatusOK, status)
	standings := decode[[]struct {
		PlayerID int  `json:"player_id"`
		Score    int  `json:"score"`
		OMW      *int `json:"omw"`
	}](t, body["standings"])
	require.Len(t, standings, 4)
	assert.Equal(t, ids["A"], standings[0].PlayerID)
	assert.Equal(t, 2, standings[0].Score)

	ws := dialRoom(t, server, api.hub, tournament.ID)

	status, body = api.do(http.MethodPost, base+"/pairings", nil, true)
	require.Equal(t, http.StatusOK, status)
	round := decode[struct {
		Pairings []struct {
			ID1 int `json:"id1"`
			ID2 int `json:"id2"`
		} `json:"pairings"`
	}](t, body["round"])
	require.Len(t, round.Pairings, 2)
	assert.Equal(t, ids["A"], round.Pairings[0].ID1)
	assert.Equal(t, ids["B"], round.Pairings[0].ID2)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := ws.ReadMessage()
	require.NoError(t, err)
	var event brackets.WebSocketMessage
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, brackets.EventRoundPaired, event.Type)

	status, _ = api.do(http.MethodPost, base+"/bye", nil, true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodPost, base+"/players/"+itoa(ids["D"])+"/withdraw", nil, true)
	require.Equal(t, http.StatusNoContent, status)
	status, body = api.do(http.MethodPost, base+"/bye", nil, true)
	require.Equal(t, http.StatusOK, status)
	byeRound := decode[struct {
		Bye struct {
			PlayerID int `json:"player_id"`
			Byes     int `json:"byes"`
		} `json:"bye"`
		Pairings []struct {
			ID1 int `json:"id1"`
			ID2 int `json:"id2"`
		} `json:"pairings"`
	}](t, body["round"])
	assert.Equal(t, ids["A"], byeRound.Bye.PlayerID)
	assert.Equal(t, 1, byeRound.Bye.Byes)
	require.Len(t, byeRound.Pairings, 1)
	assert.Equal(t, ids["B"], byeRound.Pairings[0].ID1)
	assert.Equal(t, ids["C"], byeRound.Pairings[0].ID2)

	status, _ = api.do(http.MethodPost, base+"/reset", nil, true)
	require.Equal(t, http.StatusNoContent, status)
	status, body = api.do(http.MethodGet, base+"/players", nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]json.RawMessage](t, body["players"]))
}

func TestRoutes_PairingConflict(t *testing.T) {
	_, api := newServer(t)

	_, body := api.do(http.MethodPost, "/api/v1/tournaments", map[string]string{"name": "Tiny"}, true)
	base := "/api/v1/tournaments/" + itoa(decode[idResponse](t, body["tournament"]).ID)

	var ids []int
	for _, name := range []string{"A", "B"} {
		_, body := api.do(http.MethodPost, base+"/players", map[string]string{"name": name}, true)
		ids = append(ids, decode[idResponse](t, body["player"]).ID)
	}
	status, _ := api.do(http.MethodPost, base+"/matches", map[string]int{"winner_id": ids[0], "loser_id": ids[1]}, true)
	require.Equal(t, http.StatusCreated, status)

	status, body = api.do(http.MethodPost, base+"/pairings", nil, true)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body["error"]), "rematch")
}

func TestRoutes_Errors(t *testing.T) {
	_, api := newServer(t)

	status, _ := api.do(http.MethodGet, "/api/v1/tournaments/42", nil, false)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = api.do(http.MethodGet, "/api/v1/tournaments/abc/standings", nil, false)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = api.do(http.MethodGet, "/api/v1/tournaments/42/standings", nil, false)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := api.do(http.MethodGet, "/api/v1/tournaments", nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]json.RawMessage](t, body["tournaments"]))

	status, _ = api.do(http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, status)

	resp, err := http.Get(api.base + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(api.base + "/ws/tournaments/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func dialRoom(t *testing.T, server *httptest.Server, hub *brackets.Hub, tournamentID int) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/tournaments/" + itoa(tournamentID)
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return hub.ClientCount(brackets.TournamentRoom(tournamentID)) == 1
	}, 2*time.Second, 10*time.Millisecond)
	return conn
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
