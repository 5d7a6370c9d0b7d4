package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/roomwarden/internal/api"
	"github.com/mcoot/roomwarden/internal/api/apierr"
	"github.com/mcoot/roomwarden/internal/api/response"
	"github.com/mcoot/roomwarden/internal/factory"
	"github.com/mcoot/roomwarden/internal/session"
	"github.com/mcoot/roomwarden/internal/testutil"
)

const waitFor = 2 * time.Second

// testServer creates a test server over a running TestApp
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T, simulation bool) *testServer {
	t.Helper()

	app := factory.NewTestApp(factory.TestConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = app.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	router := api.NewRouter(api.RouterConfig{
		Logger:        testutil.NopLogger(),
		Loop:          app.Loop,
		Clock:         app.Clock,
		Sim:           app.Room,
		SimulationAPI: simulation,
		Version:       factory.Version,
		StartedAt:     app.StartedAt,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) join(t *testing.T, name string) response.Player {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sim/join", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rr.Code)

	var p response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func (ts *testServer) chat(t *testing.T, id int, message string) {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sim/chat", map[string]any{"id": id, "message": message})
	require.Equal(t, http.StatusNoContent, rr.Code)
}

// settled waits until cond holds on the session loop
func (ts *testServer) settled(t *testing.T, cond func(st *session.State) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		ok := false
		err := ts.app.Loop.Do(context.Background(), func(st *session.State) { ok = cond(st) })
		return err == nil && ok
	}, waitFor, time.Millisecond)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestRoot(t *testing.T) {
	ts := newTestServer(t, true)
	ts.app.MockClock.Advance(90 * time.Second)

	rr := ts.request(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Root
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "online", resp.Status)
	assert.Equal(t, "1m30s", resp.Uptime)
	assert.Equal(t, factory.Version, resp.Version)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Equal(t, response.ContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestStatusListsPlayers(t *testing.T) {
	ts := newTestServer(t, true)

	owner := ts.join(t, "Olivia")
	ts.join(t, "Bob")
	ts.chat(t, owner.ID, "!owner "+factory.TestOwnerPassword)
	ts.settled(t, func(st *session.State) bool { return st.Authority.Snapshot().OwnerName == "Olivia" })

	rr := ts.request(http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "RHL TOURNAMENT", resp.Room)
	assert.Equal(t, "RHL Bot", resp.Host)
	assert.True(t, resp.Public)
	assert.Equal(t, "eg", resp.Geo.Code)
	assert.InDelta(t, 30.0444, resp.Geo.Lat, 1e-9)
	assert.Nil(t, resp.Match.Score)
	assert.Equal(t, 2, resp.Players)
	assert.Equal(t, 16, resp.MaxPlayers)
	require.Len(t, resp.PlayerList, 2)
	assert.True(t, resp.PlayerList[0].Admin)
	assert.False(t, resp.PlayerList[1].Admin)
	assert.Equal(t, "spectators", resp.PlayerList[1].Team)
	assert.Equal(t, "idle", resp.Match.State)
}

func TestSimulatedMatchShowsInStats(t *testing.T) {
	ts := newTestServer(t, true)

	owner := ts.join(t, "Olivia")
	bob := ts.join(t, "Bob")
	ts.join(t, "Cleo")
	ts.chat(t, owner.ID, "!owner "+factory.TestOwnerPassword)
	ts.chat(t, owner.ID, "!newclub Falcons Bob")
	ts.chat(t, owner.ID, "!red Bob")
	ts.chat(t, owner.ID, "!blue Cleo")
	ts.settled(t, func(st *session.State) bool { return st.Clubs.IsCaptain("Bob") })

	rr := ts.request(http.MethodPost, "/api/v1/sim/start", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	ts.settled(t, func(st *session.State) bool { return string(st.Match.State()) == "in_progress" })

	rr = ts.request(http.MethodPost, "/api/v1/sim/touch", map[string]int{"id": bob.ID})
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/sim/goal", map[string]string{"team": "red"})
	require.Equal(t, http.StatusNoContent, rr.Code)
	ts.settled(t, func(st *session.State) bool { return st.Match.Current().RedGoals == 1 })

	rr = ts.request(http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var status response.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	require.NotNil(t, status.Match.Score)
	assert.Equal(t, response.Score{Red: 1, ScoreLimit: 3, TimeLimit: 180}, *status.Match.Score)

	rr = ts.request(http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Clubs, 1)
	assert.Equal(t, "Falcons", resp.Clubs[0].Name)
	assert.Equal(t, "Olivia", resp.Owner)
	require.NotNil(t, resp.CurrentMatch)
	assert.Equal(t, []string{"Bob"}, resp.CurrentMatch.GoalScorers)

	rr = ts.request(http.MethodPost, "/api/v1/sim/stop", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	ts.settled(t, func(st *session.State) bool {
		p, _ := st.Stats.Get("Cleo")
		return p.Losses == 1
	})
}

func TestSimErrors(t *testing.T) {
	ts := newTestServer(t, true)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"join without name", "/api/v1/sim/join", map[string]string{"name": " "}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"malformed body", "/api/v1/sim/chat", "not an object", http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"unknown player", "/api/v1/sim/touch", map[string]int{"id": 99}, http.StatusNotFound, apierr.CodePlayerNotFound},
		{"bad goal team", "/api/v1/sim/goal", map[string]string{"team": "spec"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"goal without game", "/api/v1/sim/goal", map[string]string{"team": "blue"}, http.StatusConflict, apierr.CodeNoGame},
		{"stop without game", "/api/v1/sim/stop", nil, http.StatusConflict, apierr.CodeNoGame},
		{"bad team", "/api/v1/sim/team", map[string]any{"id": 1, "team": "green"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}

func TestBannedPlayerCannotRejoin(t *testing.T) {
	ts := newTestServer(t, true)

	owner := ts.join(t, "Olivia")
	ts.join(t, "Troll")
	ts.chat(t, owner.ID, "!owner "+factory.TestOwnerPassword)
	ts.chat(t, owner.ID, "!ban Troll")
	ts.settled(t, func(st *session.State) bool { return len(st.Room.Sessions()) == 1 })

	rr := ts.request(http.MethodPost, "/api/v1/sim/join", map[string]string{"name": "Troll"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeBanned, decodeError(t, rr).Code)
}

func TestSimulationDisabled(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.request(http.MethodPost, "/api/v1/sim/join", map[string]string{"name": "Bob"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSimulationDisabled, decodeError(t, rr).Code)

	// read-only routes stay up
	rr = ts.request(http.MethodGet, "/api/v1/status", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStatusWhenLoopStopped(t *testing.T) {
	app := factory.NewTestApp(factory.TestConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = app.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	router := api.NewRouter(api.RouterConfig{
		Logger:    testutil.NopLogger(),
		Loop:      app.Loop,
		Clock:     app.Clock,
		StartedAt: app.StartedAt,
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
