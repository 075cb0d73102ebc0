package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/tfmsync/internal/models"
)

var (
	// ErrNotFound is returned when the requested file or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidName is returned for file names outside the managed patterns.
	ErrInvalidName = errors.New("invalid file name")
)

// SnapshotRepository owns the canonical snapshot file.
type SnapshotRepository interface {
	Read(ctx context.Context) (*models.Snapshot, error)
	Exists(ctx context.Context) (bool, error)
	Write(ctx context.Context, snap *models.Snapshot) (*models.Snapshot, error)
	Update(ctx context.Context, fn func(*models.Snapshot) error) (*models.Snapshot, error)
}

// BackupRepository manages rotating copies of the canonical file.
type BackupRepository interface {
	Backup(ctx context.Context) (*models.BackupInfo, error)
	Prune(ctx context.Context) ([]string, error)
	List(ctx context.Context) ([]models.BackupInfo, error)
	Load(ctx context.Context, name string) (*models.Snapshot, error)
}

// ExportRepository writes archival exports.
type ExportRepository interface {
	Save(ctx context.Context, filename string, doc any) (path string, size int64, err error)
	Prune(ctx context.Context) ([]string, error)
}

// ArchiveRepository is the ledger of backups and exports written to disk.
type ArchiveRepository interface {
	Record(ctx context.Context, entry models.ArchiveEntry) (int64, error)
	MarkPruned(ctx context.Context, kind models.ArchiveKind, filenames []string, at time.Time) error
	List(ctx context.Context, filter models.ArchiveFilter) ([]models.ArchiveEntry, error)
	Ping(ctx context.Context) error
}
