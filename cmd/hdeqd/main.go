// Package main implements hdeqd, a small daemon that serves one hashed
// deque over HTTP so several processes can share it.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│                hdeqd                    │
//	├─────────────────────────────────────────┤
//	│  HTTP API:                              │
//	│    /left, /right  - push (POST)         │
//	│                     pop (DELETE)        │
//	│    /stats         - deque statistics    │
//	│    /health        - health check        │
//	│    /metrics       - Prometheus          │
//	├─────────────────────────────────────────┤
//	│  hdeq.Deque[json.RawMessage]            │
//	│    N buckets, left/right cursors        │
//	└─────────────────────────────────────────┘
//
// Configuration:
//   - HDEQ_CONFIG: optional YAML file (listen, buckets, shutdown_timeout)
//   - HDEQ_LISTEN: listen address (default ":8090")
//   - HDEQ_BUCKETS: bucket count, a power of two (default 4)
//
// Environment variables override the YAML file.
//
// Example usage:
//
//	HDEQ_BUCKETS=8 ./hdeqd
//
//	curl -X POST localhost:8090/left -d '{"value":{"job":1}}'
//	curl -X DELETE localhost:8090/right
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dreamware/hdeq"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

// main loads configuration, serves the deque until SIGINT or SIGTERM, and
// then shuts the HTTP server down gracefully.
//
// Values still queued at shutdown are drained and counted in the log; the
// daemon keeps nothing across restarts.
func main() {
	cfg, err := loadConfig()
	if err != nil {
		logFatal("config: %v", err)
		return
	}

	d, err := hdeq.New[json.RawMessage](cfg.Buckets)
	if err != nil {
		logFatal("deque: %v", err)
		return
	}

	s := newHTTPServer(cfg, d)

	go func() {
		log.Printf("hdeqd listening on %s (%d buckets)", cfg.Listen, d.Buckets())
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logFatal("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if left := d.Drain(); len(left) > 0 {
		log.Printf("discarded %d queued values", len(left))
	}
	log.Println("hdeqd stopped")
}

// newHTTPServer builds the HTTP server for d with its own metrics registry.
func newHTTPServer(cfg Config, d *hdeq.Deque[json.RawMessage]) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newDequeCollector(d.Stats))

	return &http.Server{
		Addr:              cfg.Listen,
		Handler:           newServer(d).routes(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
