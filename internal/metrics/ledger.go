package metrics

import (
	"context"
	"time"

	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
)

type instrumentedArchive struct {
	repository.ArchiveRepository
	m *Metrics
}

// InstrumentArchive counts backups and pruned files as they pass through
// the ledger. Counts are taken whether or not the ledger write succeeds,
// since the files themselves were already written or removed.
func InstrumentArchive(repo repository.ArchiveRepository, m *Metrics) repository.ArchiveRepository {
	return &instrumentedArchive{ArchiveRepository: repo, m: m}
}

func (a *instrumentedArchive) Record(ctx context.Context, entry models.ArchiveEntry) (int64, error) {
	if entry.Kind == models.ArchiveKindBackup {
		a.m.BackupsCreated.Inc()
	}
	return a.ArchiveRepository.Record(ctx, entry)
}

func (a *instrumentedArchive) MarkPruned(ctx context.Context, kind models.ArchiveKind, filenames []string, at time.Time) error {
	a.m.FilesPruned.WithLabelValues(string(kind)).Add(float64(len(filenames)))
	return a.ArchiveRepository.MarkPruned(ctx, kind, filenames, at)
}
