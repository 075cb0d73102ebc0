package services

import (
	"context"
	"time"

	"github.com/vytor/tfmsync/internal/errors"
	"github.com/vytor/tfmsync/internal/jobs"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/metrics"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
)

// SyncService handles reading, pushing and freshness checks of the snapshot
type SyncService interface {
	GetData(ctx context.Context) (*models.Snapshot, error)
	Push(ctx context.Context, snap *models.Snapshot) (*models.Snapshot, error)
	CheckSync(ctx context.Context, clientTimestamp string) (*models.SyncStatus, error)
}

type syncService struct {
	snapshots repository.SnapshotRepository
	queue     jobs.JobQueue
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewSyncService creates a new SyncService. queue may be nil to disable mirroring.
func NewSyncService(snapshots repository.SnapshotRepository, queue jobs.JobQueue, m *metrics.Metrics, now func() time.Time) SyncService {
	if now == nil {
		now = time.Now
	}
	return &syncService{snapshots: snapshots, queue: queue, metrics: m, now: now}
}

func (s *syncService) GetData(ctx context.Context) (*models.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting snapshot")

	snap, err := s.snapshots.Read(ctx)
	if err != nil {
		log.Error("failed to read snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return snap, nil
}

func (s *syncService) Push(ctx context.Context, snap *models.Snapshot) (*models.Snapshot, error) {
	log := logger.FromContext(ctx)

	if err := validateSnapshot(snap); err != nil {
		log.Warn("rejected push: %v", err)
		return nil, err
	}
	warnUnknownValues(log, snap)
	log.Debug("pushing snapshot: players=%d, games=%d", len(snap.Players), len(snap.Games))

	saved, err := s.snapshots.Write(ctx, snap)
	if err != nil {
		log.Error("failed to write snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.metrics.Pushes.Inc()
	enqueueMirror(ctx, s.queue, s.metrics, saved)

	log.Info("snapshot pushed: players=%d, games=%d, last_updated=%s", len(saved.Players), len(saved.Games), saved.LastUpdated)
	return saved, nil
}

func (s *syncService) CheckSync(ctx context.Context, clientTimestamp string) (*models.SyncStatus, error) {
	log := logger.FromContext(ctx)

	exists, err := s.snapshots.Exists(ctx)
	if err != nil {
		log.Error("failed to stat snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !exists {
		s.metrics.SyncChecks.WithLabelValues(metrics.SyncNoData).Inc()
		return &models.SyncStatus{ServerTimestamp: models.Timestamp(s.now())}, nil
	}

	snap, err := s.snapshots.Read(ctx)
	if err != nil {
		log.Error("failed to read snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Timestamps are opaque; only exact equality counts as current.
	if snap.LastUpdated == clientTimestamp {
		s.metrics.SyncChecks.WithLabelValues(metrics.SyncCurrent).Inc()
		return &models.SyncStatus{ServerTimestamp: snap.LastUpdated}, nil
	}

	s.metrics.SyncChecks.WithLabelValues(metrics.SyncStale).Inc()
	log.Debug("client is stale: client=%q, server=%q", clientTimestamp, snap.LastUpdated)
	return &models.SyncStatus{
		NeedsUpdate:     true,
		ServerTimestamp: snap.LastUpdated,
		Data:            snap,
	}, nil
}
