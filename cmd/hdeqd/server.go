package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dreamware/hdeq"
	"github.com/dreamware/hdeq/internal/api"
)

// maxPushBytes caps the body of one push request.
const maxPushBytes = 1 << 20

// server serves one deque of raw JSON values.
type server struct {
	deque *hdeq.Deque[json.RawMessage]
}

func newServer(d *hdeq.Deque[json.RawMessage]) *server {
	return &server{deque: d}
}

// routes wires the HTTP API. Metrics are served from reg.
//
// Routes:
//   - /left, /right: POST pushes, DELETE pops
//   - /stats: GET deque statistics
//   - /health: liveness
//   - /metrics: Prometheus exposition
func (s *server) routes(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/left", s.handleEnd(api.Left))
	mux.HandleFunc("/right", s.handleEnd(api.Right))
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

// handleEnd returns the handler for one end of the deque.
//
// Response:
//   - POST 204: value pushed
//   - POST 400: body is not {"value": ...} or the value is missing
//   - POST 413: body larger than maxPushBytes
//   - DELETE 200: {"value": ...}
//   - DELETE 404: the examined bucket was empty
//   - 405 for any other method
func (s *server) handleEnd(end api.End) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.push(end, w, r)
		case http.MethodDelete:
			s.pop(end, w)
		default:
			w.Header().Set("Allow", "POST, DELETE")
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func (s *server) push(end api.End, w http.ResponseWriter, r *http.Request) {
	var req api.PushRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxPushBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "value too large")
			return
		}
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if len(req.Value) == 0 {
		writeError(w, http.StatusBadRequest, "missing value")
		return
	}

	if end == api.Left {
		s.deque.PushLeft(req.Value)
	} else {
		s.deque.PushRight(req.Value)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) pop(end api.End, w http.ResponseWriter) {
	var (
		v  json.RawMessage
		ok bool
	)
	if end == api.Left {
		v, ok = s.deque.PopLeft()
	} else {
		v, ok = s.deque.PopRight()
	}
	if !ok {
		writeError(w, http.StatusNotFound, hdeq.ErrEmpty.Error())
		return
	}
	writeJSON(w, http.StatusOK, api.PopResponse{Value: v})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, api.StatsResponse{Stats: s.deque.Stats()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}
