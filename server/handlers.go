package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/balansim/balansim/sim"
)

type startRequest struct {
	SelectedAlgorithm string `json:"selected_algorithm"`
}

type addProcessRequest struct {
	PID         string `json:"pid"`
	ArrivalTime int64  `json:"arrival_time"`
	BurstTime   int64  `json:"burst_time"`
}

type generateRequest struct {
	Count int `json:"count"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.engine.Start(req.SelectedAlgorithm); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "started"})
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	s.engine.Pause()
	writeJSON(w, http.StatusOK, statusResponse{Status: "paused"})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.engine.Reset()
	writeJSON(w, http.StatusOK, statusResponse{Status: "reset"})
}

func (s *Server) handleAddProcess(w http.ResponseWriter, r *http.Request) {
	var req addProcessRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.engine.AddTask(req.PID, req.ArrivalTime, req.BurstTime); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		PID    string `json:"pid"`
	}{Status: "added", PID: req.PID})
}

func (s *Server) handleGenerateProcesses(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decode(w, r, &req) {
		return
	}
	pids, err := s.engine.Generate(req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Status string   `json:"status"`
		Count  int      `json:"count"`
		PIDs   []string `json:"pids"`
	}{Status: "generated", Count: len(pids), PIDs: pids})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// decode parses the JSON body into dst, answering 400 on malformed input.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body: " + err.Error()})
		return false
	}
	return true
}

// writeError maps the engine's error taxonomy onto HTTP status codes:
// invalid arguments are 400, state conflicts and duplicate PIDs are 409.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sim.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, sim.ErrInvalidState), errors.Is(err, sim.ErrDuplicateID):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("encode response: %v", err)
	}
}
