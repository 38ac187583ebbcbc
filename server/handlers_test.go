package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balansim/balansim/sim"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func newTestServer() (*Server, *sim.Engine) {
	engine := sim.NewEngine(sim.DefaultConfig())
	return New(engine, "127.0.0.1:0"), engine
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestStartEndpoint(t *testing.T) {
	s, engine := newTestServer()
	router := s.Router()

	rec := doJSON(t, router, http.MethodPost, "/start", `{"selected_algorithm":"round_robin"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, engine.Running())

	// Starting again while running conflicts.
	rec = doJSON(t, router, http.MethodPost, "/start", `{"selected_algorithm":"round_robin"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStartEndpoint_UnknownAlgorithm(t *testing.T) {
	s, engine := newTestServer()
	rec := doJSON(t, s.Router(), http.MethodPost, "/start", `{"selected_algorithm":"lottery"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, engine.Running())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "lottery")
}

func TestStartEndpoint_MalformedBody(t *testing.T) {
	s, _ := newTestServer()
	rec := doJSON(t, s.Router(), http.MethodPost, "/start", `{"selected_algorithm":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPauseAndResetEndpoints(t *testing.T) {
	s, engine := newTestServer()
	router := s.Router()
	require.NoError(t, engine.AddTask("P1", 0, 3))
	require.NoError(t, engine.Start(sim.StrategyRoundRobin))

	rec := doJSON(t, router, http.MethodPost, "/pause", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, engine.Running())

	rec = doJSON(t, router, http.MethodPost, "/reset", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), engine.Tick())
	assert.Empty(t, engine.Snapshot().ActiveTasks)
}

func TestAddProcessEndpoint(t *testing.T) {
	s, engine := newTestServer()
	router := s.Router()

	rec := doJSON(t, router, http.MethodPost, "/add_process", `{"pid":"P1","arrival_time":0,"burst_time":3}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, engine.Snapshot().ActiveTasks, 1)

	// Duplicate PID conflicts, invalid burst is a bad request.
	rec = doJSON(t, router, http.MethodPost, "/add_process", `{"pid":"P1","arrival_time":0,"burst_time":3}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/add_process", `{"pid":"P2","arrival_time":0,"burst_time":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/add_process", `{"pid":"P3","arrival_time":-1,"burst_time":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateProcessesEndpoint(t *testing.T) {
	s, engine := newTestServer()
	router := s.Router()

	rec := doJSON(t, router, http.MethodPost, "/generate_processes", `{"count":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string   `json:"status"`
		Count  int      `json:"count"`
		PIDs   []string `json:"pids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "generated", resp.Status)
	assert.Equal(t, 5, resp.Count)
	assert.Len(t, resp.PIDs, 5)
	assert.Len(t, engine.Snapshot().ActiveTasks, 5)

	rec = doJSON(t, router, http.MethodPost, "/generate_processes", `{"count":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStateEndpoint(t *testing.T) {
	s, engine := newTestServer()
	router := s.Router()
	require.NoError(t, engine.AddTask("P1", 0, 2))
	require.NoError(t, engine.Start(sim.StrategyLeastLoaded))
	for !engine.Finished() {
		engine.Step()
	}

	rec := doJSON(t, router, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap sim.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.True(t, snap.Finished)
	assert.False(t, snap.Running)
	require.Len(t, snap.Processors, 4)
	require.NotNil(t, snap.Metrics)
	require.Len(t, snap.CompletedDetails, 1)
	assert.Equal(t, "P1", snap.CompletedDetails[0].PID)
	assert.NotEmpty(t, snap.Log)
}

func TestStateEndpoint_ConcurrentWithCommands(t *testing.T) {
	// Snapshot reads and commands share the engine lock; hammering both
	// concurrently must not race or observe a mid-tick state.
	s, engine := newTestServer()
	router := s.Router()
	require.NoError(t, engine.AddTask("P1", 0, 50))
	require.NoError(t, engine.Start(sim.StrategyThreshold))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			engine.Step()
		}
	}()
	for i := 0; i < 100; i++ {
		rec := doJSON(t, router, http.MethodGet, "/state", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	<-done
}
