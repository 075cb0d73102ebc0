package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/tfmsync/internal/errors"
	"github.com/vytor/tfmsync/internal/jobs"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/metrics"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
)

const maxHistoryLimit = 500

// BackupService exposes backups for rollback and the archive ledger
type BackupService interface {
	ListBackups(ctx context.Context) ([]models.BackupInfo, error)
	Restore(ctx context.Context, name string) (*models.Snapshot, error)
	History(ctx context.Context, filter models.ArchiveFilter) ([]models.ArchiveEntry, error)
	Ping(ctx context.Context) error
}

type backupService struct {
	snapshots repository.SnapshotRepository
	backups   repository.BackupRepository
	ledger    repository.ArchiveRepository
	queue     jobs.JobQueue
	metrics   *metrics.Metrics
}

// NewBackupService creates a new BackupService
func NewBackupService(
	snapshots repository.SnapshotRepository,
	backups repository.BackupRepository,
	ledger repository.ArchiveRepository,
	queue jobs.JobQueue,
	m *metrics.Metrics,
) BackupService {
	return &backupService{snapshots: snapshots, backups: backups, ledger: ledger, queue: queue, metrics: m}
}

func (s *backupService) ListBackups(ctx context.Context) ([]models.BackupInfo, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing backups")

	backups, err := s.backups.List(ctx)
	if err != nil {
		log.Error("failed to list backups: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if backups == nil {
		backups = []models.BackupInfo{}
	}
	return backups, nil
}

func (s *backupService) Restore(ctx context.Context, name string) (*models.Snapshot, error) {
	log := logger.FromContext(ctx).WithField("backup", name)
	log.Info("restoring backup")

	snap, err := s.backups.Load(ctx, name)
	switch {
	case stderrors.Is(err, repository.ErrInvalidName):
		return nil, errors.NewBadRequestError("invalid backup name")
	case stderrors.Is(err, repository.ErrNotFound):
		return nil, errors.NewNotFoundError("backup")
	case err != nil:
		log.Error("failed to load backup: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Restoring goes through the normal write, so the current file is
	// itself backed up first.
	saved, err := s.snapshots.Write(ctx, snap)
	if err != nil {
		log.Error("failed to write restored snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.metrics.Restores.Inc()
	enqueueMirror(ctx, s.queue, s.metrics, saved)

	log.Info("backup restored: players=%d, games=%d", len(saved.Players), len(saved.Games))
	return saved, nil
}

func (s *backupService) History(ctx context.Context, filter models.ArchiveFilter) ([]models.ArchiveEntry, error) {
	log := logger.FromContext(ctx)

	switch filter.Kind {
	case "", models.ArchiveKindBackup, models.ArchiveKindExport:
	default:
		return nil, errors.NewValidationError("kind", "must be backup or export")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, errors.NewValidationError("limit", "must not be negative")
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}

	entries, err := s.ledger.List(ctx, filter)
	if err != nil {
		log.Error("failed to list archive entries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entries == nil {
		entries = []models.ArchiveEntry{}
	}
	return entries, nil
}

func (s *backupService) Ping(ctx context.Context) error {
	return s.ledger.Ping(ctx)
}
