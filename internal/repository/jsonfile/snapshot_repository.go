package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
)

type snapshotRepository struct {
	layout  Layout
	backups repository.BackupRepository
	now     Clock

	// mu serializes writers; readers share it. Writers also replace the file
	// by rename, so a reader never observes a partial file.
	mu sync.RWMutex
}

// NewSnapshotRepository creates the canonical-file store rooted at layout.
// backups may be nil, in which case overwrites are not backed up.
func NewSnapshotRepository(layout Layout, backups repository.BackupRepository, now Clock) repository.SnapshotRepository {
	if now == nil {
		now = time.Now
	}
	return &snapshotRepository{layout: layout, backups: backups, now: now}
}

func (r *snapshotRepository) Read(ctx context.Context) (*models.Snapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")

	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, err := r.load()
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug("no data file yet, serving empty snapshot")
		return models.EmptySnapshot(models.Timestamp(r.now())), nil
	}
	if err != nil {
		log.Error("failed to read snapshot: %v", err)
		return nil, err
	}
	log.Debug("snapshot read: players=%d, games=%d", len(snap.Players), len(snap.Games))
	return snap, nil
}

func (r *snapshotRepository) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(r.layout.Canonical())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (r *snapshotRepository) Write(ctx context.Context, snap *models.Snapshot) (*models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commit(ctx, snap)
}

func (r *snapshotRepository) Update(ctx context.Context, fn func(*models.Snapshot) error) (*models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load()
	if err != nil {
		return nil, err
	}
	if err := fn(snap); err != nil {
		return nil, err
	}
	return r.commit(ctx, snap)
}

func (r *snapshotRepository) load() (*models.Snapshot, error) {
	path := r.layout.Canonical()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	snap.Normalize()
	return &snap, nil
}

// commit stamps, backs up the previous file and persists. Callers hold mu.
func (r *snapshotRepository) commit(ctx context.Context, snap *models.Snapshot) (*models.Snapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")

	out := *snap
	out.Normalize()
	out.LastUpdated = models.Timestamp(r.now())

	if r.backups != nil {
		if _, err := r.backups.Backup(ctx); err != nil {
			log.Warn("backup failed, continuing with write: %v", err)
		} else if _, err := r.backups.Prune(ctx); err != nil {
			log.Warn("backup prune failed: %v", err)
		}
	}

	data, err := encodeJSON(out)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := writeFileAtomic(r.layout.Canonical(), data, 0o644); err != nil {
		log.Error("failed to write snapshot: %v", err)
		return nil, err
	}

	log.Info("snapshot written: players=%d, games=%d, last_updated=%s", len(out.Players), len(out.Games), out.LastUpdated)
	return &out, nil
}
