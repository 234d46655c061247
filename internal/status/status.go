// Package status exposes a minimal read-only HTTP surface for operational
// visibility: a liveness check and a snapshot of the Controller's current
// state. It mirrors the teacher's api/router.go shape (gorilla/mux,
// a mutex-guarded state snapshot, JSON responses) reduced to what a
// daemon with no UI needs.
package status

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Snapshot is the point-in-time state the /status endpoint reports.
type Snapshot struct {
	ControllerStatus string `json:"controller_status"`
	StartedAt        time.Time `json:"started_at"`
}

// Server owns the current Snapshot and serves it over HTTP.
type Server struct {
	mu       sync.RWMutex
	snapshot Snapshot
	addr     string
}

// New builds a Server listening on addr, with an initial snapshot
// recording the process start time.
func New(addr string) *Server {
	return &Server{addr: addr, snapshot: Snapshot{StartedAt: time.Now()}}
}

// Update replaces the reported Controller status string.
func (s *Server) Update(controllerStatus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.ControllerStatus = controllerStatus
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	srv := &http.Server{Addr: s.addr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", s.addr).Msg("status: listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
