package api

import (
	"net/http"

	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/models"
)

type pushResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	LastUpdated  string `json:"lastUpdated"`
	TotalGames   int    `json:"totalGames"`
	TotalPlayers int    `json:"totalPlayers"`
}

func newPushResponse(message string, snap *models.Snapshot) pushResponse {
	return pushResponse{
		Success:      true,
		Message:      message,
		LastUpdated:  snap.LastUpdated,
		TotalGames:   len(snap.Games),
		TotalPlayers: len(snap.Players),
	}
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	snap, err := s.SyncService.GetData(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePostData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var snap models.Snapshot
	if err := decodeJSON(r, &snap); err != nil {
		handleError(w, r, err)
		return
	}

	saved, err := s.SyncService.Push(r.Context(), &snap)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("data saved: last_updated=%s", saved.LastUpdated)
	writeJSON(w, http.StatusOK, newPushResponse("Data updated", saved))
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	status, err := s.SyncService.CheckSync(r.Context(), r.URL.Query().Get("timestamp"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
