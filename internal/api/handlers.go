package api

import (
	"github.com/vytor/tfmsync/internal/metrics"
	"github.com/vytor/tfmsync/internal/services"
)

type Server struct {
	SyncService   services.SyncService
	StatsService  services.StatsService
	ExportService services.ExportService
	BackupService services.BackupService
	Metrics       *metrics.Metrics
	StaticDir     string
}
