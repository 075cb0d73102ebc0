package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/tfmsync/internal/api"
	"github.com/vytor/tfmsync/internal/config"
	"github.com/vytor/tfmsync/internal/db"
	"github.com/vytor/tfmsync/internal/jobs"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/metrics"
	"github.com/vytor/tfmsync/internal/mirror"
	"github.com/vytor/tfmsync/internal/repository/jsonfile"
	"github.com/vytor/tfmsync/internal/repository/sqlite"
	"github.com/vytor/tfmsync/internal/services"
	"github.com/vytor/tfmsync/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Terraforming Mars Sync Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("data_dir=%s", cfg.DataDir)
	log.Debug("static_dir=%s", cfg.StaticDir)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("backup_limit=%d", cfg.BackupLimit)
	log.Debug("archive_limit=%d", cfg.ArchiveLimit)
	log.Debug("ledger_path=%s", cfg.LedgerPath)
	log.Debug("mirror_worker_count=%d", cfg.MirrorWorkerCount)
	log.Debug("mirror_queue_size=%d", cfg.MirrorQueueSize)

	// Open archive ledger
	database, err := db.Open(cfg.LedgerPath)
	if err != nil {
		log.Error("failed to open ledger database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing ledger connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis mirror is optional
	var publisher mirror.Publisher = mirror.Noop{}
	if cfg.RedisURL != "" {
		client, err := mirror.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis: %v", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = mirror.NewRedisMirror(client)
		log.Info("mirroring snapshots to redis")
	}

	m := metrics.New()

	// Repositories
	layout := jsonfile.Layout{Root: cfg.DataDir}
	ledger := metrics.InstrumentArchive(sqlite.NewArchiveRepository(database.DB), m)
	backups := jsonfile.NewBackupRepository(layout, cfg.BackupLimit, time.Now, ledger)
	snapshots := jsonfile.NewSnapshotRepository(layout, backups, time.Now)
	exports := jsonfile.NewExportRepository(layout, cfg.ArchiveLimit)

	// Background mirror
	mirrorPool := worker.NewPool(cfg.MirrorWorkerCount, cfg.MirrorQueueSize)
	queue := jobs.NewWorkerQueue(mirrorPool, publisher)

	srv := &api.Server{
		SyncService:   services.NewSyncService(snapshots, queue, m, time.Now),
		StatsService:  services.NewStatsService(snapshots, queue, m),
		ExportService: services.NewExportService(snapshots, exports, ledger, m, time.Now),
		BackupService: services.NewBackupService(snapshots, backups, ledger, queue, m),
		Metrics:       m,
		StaticDir:     cfg.StaticDir,
	}

	mirrorPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		log.Info("data file: %s", layout.Canonical())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop accepting requests first so no new mirror jobs arrive
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("draining mirror pool")
	mirrorPool.Stop(shutdownCtx)

	log.Info("===========================================")
	log.Info("Terraforming Mars Sync Server Stopped")
	log.Info("===========================================")
}
