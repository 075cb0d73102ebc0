package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vytor/tfmsync/internal/archive"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/repository"
)

func isExportName(name string) bool {
	return strings.HasPrefix(name, archive.FilePrefix) && strings.HasSuffix(name, ".json")
}

type exportRepository struct {
	layout Layout
	limit  int
	mu     sync.Mutex
}

// NewExportRepository writes exports under the archive directory. limit <= 0
// keeps every export.
func NewExportRepository(layout Layout, limit int) repository.ExportRepository {
	return &exportRepository{layout: layout, limit: limit}
}

func (r *exportRepository) Save(ctx context.Context, filename string, doc any) (string, int64, error) {
	log := logger.FromContext(ctx).WithPrefix("export_repo")
	if !plainName(filename) || !isExportName(filename) {
		return "", 0, repository.ErrInvalidName
	}

	data, err := encodeJSON(doc)
	if err != nil {
		return "", 0, fmt.Errorf("encode export: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	path := filepath.Join(r.layout.ExportDir(), filename)
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		log.Error("failed to write export: %v", err)
		return "", 0, err
	}
	log.Info("export written: %s (%d bytes)", path, len(data))
	return path, int64(len(data)), nil
}

func (r *exportRepository) Prune(ctx context.Context) ([]string, error) {
	if r.limit <= 0 {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return pruneDir(ctx, r.layout.ExportDir(), isExportName, r.limit)
}
