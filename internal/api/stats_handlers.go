package api

import (
	"net/http"

	"github.com/vytor/tfmsync/internal/stats"
)

type recalculateResponse struct {
	Success          bool              `json:"success"`
	Message          string            `json:"message"`
	Players          int               `json:"players"`
	Games            int               `json:"games"`
	UnmatchedResults []stats.Unmatched `json:"unmatchedResults"`
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	result, err := s.StatsService.Recalculate(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	unmatched := result.Report.Unmatched
	if unmatched == nil {
		unmatched = []stats.Unmatched{}
	}
	writeJSON(w, http.StatusOK, recalculateResponse{
		Success:          true,
		Message:          "Player stats recalculated",
		Players:          len(result.Snapshot.Players),
		Games:            len(result.Snapshot.Games),
		UnmatchedResults: unmatched,
	})
}
