package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vytor/tfmsync/internal/logger"
)

const (
	canonicalName = "game_data.json"
	backupDirName = "backups"
	exportDirName = "games"
)

// Clock returns the current time. Tests substitute a deterministic one.
type Clock func() time.Time

// Layout resolves the on-disk locations under the data directory.
type Layout struct {
	Root string
}

func (l Layout) Canonical() string { return filepath.Join(l.Root, canonicalName) }
func (l Layout) BackupDir() string { return filepath.Join(l.Root, backupDirName) }
func (l Layout) ExportDir() string { return filepath.Join(l.Root, exportDirName) }

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

type dirEntry struct {
	name    string
	path    string
	size    int64
	modTime time.Time
}

// listNewestFirst returns regular files in dir accepted by match, newest
// modification time first. Equal times fall back to name order, which for
// timestamped names is also newest first.
func listNewestFirst(dir string, match func(string) bool) ([]dirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]dirEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !match(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, dirEntry{
			name:    e.Name(),
			path:    filepath.Join(dir, e.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.After(files[j].modTime)
		}
		return files[i].name > files[j].name
	})
	return files, nil
}

// pruneDir deletes every matching file past the keep newest. A failed
// removal is logged and the pass continues.
func pruneDir(ctx context.Context, dir string, match func(string) bool, keep int) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("prune")

	files, err := listNewestFirst(dir, match)
	if err != nil {
		return nil, err
	}
	if len(files) <= keep {
		return nil, nil
	}

	var removed []string
	for _, f := range files[keep:] {
		if err := os.Remove(f.path); err != nil {
			log.Warn("failed to remove %s: %v", f.path, err)
			continue
		}
		log.Info("removed old file: %s", f.path)
		removed = append(removed, f.name)
	}
	return removed, nil
}

func plainName(name string) bool {
	return name != "" && filepath.Base(name) == name && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}
