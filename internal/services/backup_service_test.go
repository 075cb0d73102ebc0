package services_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/tfmsync/internal/errors"
	"github.com/vytor/tfmsync/internal/metrics"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
	"github.com/vytor/tfmsync/internal/services"
	"github.com/vytor/tfmsync/internal/testutil/mocks"
)

type backupFixture struct {
	snapshots *mocks.MockSnapshotRepository
	backups   *mocks.MockBackupRepository
	ledger    *mocks.MockArchiveRepository
	queue     *mocks.MockJobQueue
	metrics   *metrics.Metrics
	svc       services.BackupService
}

func newBackupFixture() *backupFixture {
	f := &backupFixture{
		snapshots: new(mocks.MockSnapshotRepository),
		backups:   new(mocks.MockBackupRepository),
		ledger:    new(mocks.MockArchiveRepository),
		queue:     new(mocks.MockJobQueue),
		metrics:   metrics.New(),
	}
	f.svc = services.NewBackupService(f.snapshots, f.backups, f.ledger, f.queue, f.metrics)
	return f
}

func TestBackupService_ListBackups_EmptyIsNotNil(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture()
	f.backups.On("List", ctx).Return(nil, nil)

	backups, err := f.svc.ListBackups(ctx)

	require.NoError(t, err)
	assert.NotNil(t, backups)
	assert.Empty(t, backups)
}

func TestBackupService_Restore(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture()
	const name = "game_data_backup_20240501_100000.json"

	old := validSnapshot()
	f.backups.On("Load", ctx, name).Return(old, nil).Once()
	f.snapshots.On("Write", ctx, old).Return(old, nil).Once()
	f.queue.On("EnqueueMirror", old).Return(nil).Once()

	got, err := f.svc.Restore(ctx, name)

	require.NoError(t, err)
	assert.Same(t, old, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Restores))
	f.snapshots.AssertExpectations(t)
	f.queue.AssertExpectations(t)
}

func TestBackupService_Restore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid name", func(t *testing.T) {
		f := newBackupFixture()
		f.backups.On("Load", ctx, "../etc/passwd").Return(nil, repository.ErrInvalidName)

		_, err := f.svc.Restore(ctx, "../etc/passwd")

		assert.True(t, apperrors.IsBadRequest(err))
		f.snapshots.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	})

	t.Run("unknown backup", func(t *testing.T) {
		f := newBackupFixture()
		f.backups.On("Load", ctx, "game_data_backup_20000101_000000.json").Return(nil, repository.ErrNotFound)

		_, err := f.svc.Restore(ctx, "game_data_backup_20000101_000000.json")

		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestBackupService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("caps limit", func(t *testing.T) {
		f := newBackupFixture()
		f.ledger.On("List", ctx, models.ArchiveFilter{Kind: models.ArchiveKindExport, Limit: 500}).
			Return([]models.ArchiveEntry{{ID: 1}}, nil).Once()

		entries, err := f.svc.History(ctx, models.ArchiveFilter{Kind: models.ArchiveKindExport, Limit: 10000})

		require.NoError(t, err)
		assert.Len(t, entries, 1)
		f.ledger.AssertExpectations(t)
	})

	t.Run("unknown kind", func(t *testing.T) {
		f := newBackupFixture()

		_, err := f.svc.History(ctx, models.ArchiveFilter{Kind: "snapshot"})

		assert.True(t, apperrors.IsBadRequest(err))
	})
}
