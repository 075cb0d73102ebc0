package api

import (
	"net/http"

	"github.com/vytor/tfmsync/internal/logger"
)

// handleHealth answers liveness checks with 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns 200 when the archive ledger answers, 503 otherwise.
// The snapshot file is not checked; a missing file is a valid empty state.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.BackupService.Ping(r.Context()); err != nil {
		log.Warn("readiness check failed - ledger: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Ledger unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
