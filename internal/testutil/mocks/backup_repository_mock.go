package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/tfmsync/internal/models"
)

// MockBackupRepository is a mock implementation of repository.BackupRepository
type MockBackupRepository struct {
	mock.Mock
}

func (m *MockBackupRepository) Backup(ctx context.Context) (*models.BackupInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BackupInfo), args.Error(1)
}

func (m *MockBackupRepository) Prune(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBackupRepository) List(ctx context.Context) ([]models.BackupInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BackupInfo), args.Error(1)
}

func (m *MockBackupRepository) Load(ctx context.Context, name string) (*models.Snapshot, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}
