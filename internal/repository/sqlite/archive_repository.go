package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const defaultListLimit = 100

type archiveRepository struct {
	db *sql.DB
}

// NewArchiveRepository creates the SQLite-backed archive ledger.
func NewArchiveRepository(db *sql.DB) repository.ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) Record(ctx context.Context, entry models.ArchiveEntry) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("archive_repo")
	log.Debug("recording archive entry: kind=%s, filename=%s", entry.Kind, entry.Filename)

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query, args, err := sqlBuilder.Insert("archive_entries").
		Columns("kind", "filename", "path", "size_bytes", "game_count", "player_count", "created_at").
		Values(entry.Kind, entry.Filename, entry.Path, entry.SizeBytes, entry.GameCount, entry.PlayerCount, entry.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		log.Error("failed to build insert: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to record archive entry: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *archiveRepository) MarkPruned(ctx context.Context, kind models.ArchiveKind, filenames []string, at time.Time) error {
	if len(filenames) == 0 {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("archive_repo")

	query, args, err := sqlBuilder.Update("archive_entries").
		Set("pruned_at", at.UTC()).
		Where(squirrel.Eq{"kind": kind, "filename": filenames}).
		Where(squirrel.Eq{"pruned_at": nil}).
		ToSql()
	if err != nil {
		log.Error("failed to build update: %v", err)
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to mark entries pruned: %v", err)
		return err
	}
	n, _ := res.RowsAffected()
	log.Debug("marked %d %s entries pruned", n, kind)
	return nil
}

func (r *archiveRepository) List(ctx context.Context, filter models.ArchiveFilter) ([]models.ArchiveEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("archive_repo")
	log.Debug("listing archive entries: kind=%s, include_pruned=%t, limit=%d, offset=%d",
		filter.Kind, filter.IncludePruned, filter.Limit, filter.Offset)

	query := sqlBuilder.Select(
		"id", "kind", "filename", "path", "size_bytes", "game_count", "player_count", "created_at", "pruned_at",
	).From("archive_entries")

	if filter.Kind != "" {
		query = query.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if !filter.IncludePruned {
		query = query.Where(squirrel.Eq{"pruned_at": nil})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.OrderBy("created_at DESC", "id DESC").Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list archive entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []models.ArchiveEntry{}
	for rows.Next() {
		var e models.ArchiveEntry
		var pruned sql.NullTime
		if err := rows.Scan(&e.ID, &e.Kind, &e.Filename, &e.Path, &e.SizeBytes, &e.GameCount, &e.PlayerCount, &e.CreatedAt, &pruned); err != nil {
			log.Error("failed to scan archive row: %v", err)
			return nil, err
		}
		if pruned.Valid {
			t := pruned.Time
			e.PrunedAt = &t
		}
		entries = append(entries, e)
	}
	log.Debug("found %d archive entries", len(entries))
	return entries, rows.Err()
}

func (r *archiveRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
