package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/tfmsync/internal/models"
)

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := s.BackupService.ListBackups(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, backups)
}

func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	saved, err := s.BackupService.Restore(r.Context(), name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPushResponse("Backup restored: "+name, saved))
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	entries, err := s.BackupService.History(r.Context(), models.ArchiveFilter{
		Kind:          models.ArchiveKind(r.URL.Query().Get("kind")),
		IncludePruned: r.URL.Query().Get("pruned") == "true",
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
