package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
	}
	r.Use(corsMiddleware)
	r.Use(optionsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/data", s.handleGetData)
		r.Post("/data", s.handlePostData)
		r.Get("/sync", s.handleSync)
		r.Get("/recalculate", s.handleRecalculate)
		r.Get("/export", s.handleExport)
		r.Get("/backups", s.handleListBackups)
		r.Post("/backups/{name}/restore", s.handleRestoreBackup)
		r.Get("/archive", s.handleArchive)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	staticDir := s.StaticDir
	if staticDir == "" {
		staticDir = "."
	}
	r.Get("/*", http.FileServer(http.Dir(staticDir)).ServeHTTP)
	// A method mismatch answers 404, the same as an unknown path.
	r.MethodNotAllowed(http.NotFound)
	return r
}
