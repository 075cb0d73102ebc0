package api

import "net/http"

type exportResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	GameCount int    `json:"gameCount"`
	DateRange string `json:"dateRange"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.ExportService.Export(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{
		Success:   true,
		Message:   "Data exported to the games directory",
		Filename:  result.Filename,
		Path:      result.Path,
		GameCount: result.GameCount,
		DateRange: result.DateRange,
	})
}
