package services

import (
	"context"
	"time"

	"github.com/vytor/tfmsync/internal/archive"
	"github.com/vytor/tfmsync/internal/errors"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/metrics"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
)

// ExportService writes date-ranged archival copies of the snapshot
type ExportService interface {
	Export(ctx context.Context) (*models.ExportResult, error)
}

type exportService struct {
	snapshots repository.SnapshotRepository
	exports   repository.ExportRepository
	ledger    repository.ArchiveRepository
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewExportService creates a new ExportService. ledger may be nil.
func NewExportService(
	snapshots repository.SnapshotRepository,
	exports repository.ExportRepository,
	ledger repository.ArchiveRepository,
	m *metrics.Metrics,
	now func() time.Time,
) ExportService {
	if now == nil {
		now = time.Now
	}
	return &exportService{snapshots: snapshots, exports: exports, ledger: ledger, metrics: m, now: now}
}

func (s *exportService) Export(ctx context.Context) (*models.ExportResult, error) {
	log := logger.FromContext(ctx)

	exists, err := s.snapshots.Exists(ctx)
	if err != nil {
		log.Error("failed to stat snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !exists {
		return nil, errors.NewNotFoundError("data file")
	}

	snap, err := s.snapshots.Read(ctx)
	if err != nil {
		log.Error("failed to read snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.now()
	doc, label, err := archive.Build(snap, models.Timestamp(now))
	if err != nil {
		return nil, errors.NewBadRequestError("no games to export")
	}

	filename := archive.Filename(label)
	path, size, err := s.exports.Save(ctx, filename, doc)
	if err != nil {
		log.Error("failed to write export %s: %v", filename, err)
		return nil, errors.NewInternalError(err)
	}
	s.metrics.Exports.Inc()
	log.Info("export written: path=%s, games=%d", path, doc.GameCount)

	s.recordExport(ctx, models.ArchiveEntry{
		Kind:        models.ArchiveKindExport,
		Filename:    filename,
		Path:        path,
		SizeBytes:   size,
		GameCount:   doc.GameCount,
		PlayerCount: len(doc.Players),
		CreatedAt:   now,
	})

	return &models.ExportResult{
		Filename:  filename,
		Path:      path,
		GameCount: doc.GameCount,
		DateRange: label,
	}, nil
}

// recordExport updates the ledger and applies export rotation. Failures are
// logged only; the export itself is already on disk.
func (s *exportService) recordExport(ctx context.Context, entry models.ArchiveEntry) {
	log := logger.FromContext(ctx)

	if s.ledger != nil {
		if _, err := s.ledger.Record(ctx, entry); err != nil {
			log.Warn("failed to record export in ledger: %v", err)
		}
	}

	removed, err := s.exports.Prune(ctx)
	if err != nil {
		log.Warn("failed to prune exports: %v", err)
		return
	}
	if len(removed) == 0 || s.ledger == nil {
		return
	}
	if err := s.ledger.MarkPruned(ctx, models.ArchiveKindExport, removed, s.now()); err != nil {
		log.Warn("failed to mark pruned exports in ledger: %v", err)
	}
}
