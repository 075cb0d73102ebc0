package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
)

const (
	backupPrefix     = "game_data_backup_"
	backupTimeLayout = "20060102_150405"
	DefaultBackupCap = 10
)

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, ".json")
}

// BackupName returns the backup file name for a copy taken at t.
func BackupName(t time.Time) string {
	return backupPrefix + t.Format(backupTimeLayout) + ".json"
}

type backupRepository struct {
	layout Layout
	limit  int
	now    Clock
	ledger repository.ArchiveRepository
}

// NewBackupRepository keeps at most limit backups of the canonical file.
// ledger is optional; when set, created and pruned backups are recorded.
func NewBackupRepository(layout Layout, limit int, now Clock, ledger repository.ArchiveRepository) repository.BackupRepository {
	if limit <= 0 {
		limit = DefaultBackupCap
	}
	if now == nil {
		now = time.Now
	}
	return &backupRepository{layout: layout, limit: limit, now: now, ledger: ledger}
}

// Backup copies the canonical file verbatim. It returns nil when there is
// nothing to back up.
func (r *backupRepository) Backup(ctx context.Context) (*models.BackupInfo, error) {
	log := logger.FromContext(ctx).WithPrefix("backup_repo")

	data, err := os.ReadFile(r.layout.Canonical())
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no data file, skipping backup")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	now := r.now()
	name := BackupName(now)
	path := filepath.Join(r.layout.BackupDir(), name)
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return nil, err
	}
	// Creation order drives pruning, so pin the mtime to the backup's own clock.
	if err := os.Chtimes(path, now, now); err != nil {
		log.Warn("failed to set backup time on %s: %v", path, err)
	}
	log.Info("backup created: %s", path)

	info := &models.BackupInfo{Name: name, Path: path, Size: int64(len(data)), CreatedAt: now}
	r.record(ctx, info, data)
	return info, nil
}

func (r *backupRepository) record(ctx context.Context, info *models.BackupInfo, data []byte) {
	if r.ledger == nil {
		return
	}
	var counts struct {
		Players []json.RawMessage `json:"players"`
		Games   []json.RawMessage `json:"games"`
	}
	_ = json.Unmarshal(data, &counts)

	_, err := r.ledger.Record(ctx, models.ArchiveEntry{
		Kind:        models.ArchiveKindBackup,
		Filename:    info.Name,
		Path:        info.Path,
		SizeBytes:   info.Size,
		GameCount:   len(counts.Games),
		PlayerCount: len(counts.Players),
		CreatedAt:   info.CreatedAt,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("failed to record backup in ledger: %v", err)
	}
}

func (r *backupRepository) Prune(ctx context.Context) ([]string, error) {
	removed, err := pruneDir(ctx, r.layout.BackupDir(), isBackupName, r.limit)
	if err != nil {
		return nil, fmt.Errorf("prune backups: %w", err)
	}
	if len(removed) > 0 && r.ledger != nil {
		if err := r.ledger.MarkPruned(ctx, models.ArchiveKindBackup, removed, r.now()); err != nil {
			logger.FromContext(ctx).Warn("failed to mark pruned backups in ledger: %v", err)
		}
	}
	return removed, nil
}

func (r *backupRepository) List(ctx context.Context) ([]models.BackupInfo, error) {
	files, err := listNewestFirst(r.layout.BackupDir(), isBackupName)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	out := make([]models.BackupInfo, 0, len(files))
	for _, f := range files {
		out = append(out, models.BackupInfo{Name: f.name, Path: f.path, Size: f.size, CreatedAt: f.modTime})
	}
	return out, nil
}

func (r *backupRepository) Load(ctx context.Context, name string) (*models.Snapshot, error) {
	if !plainName(name) || !isBackupName(name) {
		return nil, repository.ErrInvalidName
	}
	path := filepath.Join(r.layout.BackupDir(), name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read backup %s: %w", name, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode backup %s: %w", name, err)
	}
	snap.Normalize()
	return &snap, nil
}
