package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/tfmsync/internal/models"
)

// MockArchiveRepository is a mock implementation of repository.ArchiveRepository
type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) Record(ctx context.Context, entry models.ArchiveEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArchiveRepository) MarkPruned(ctx context.Context, kind models.ArchiveKind, filenames []string, at time.Time) error {
	args := m.Called(ctx, kind, filenames, at)
	return args.Error(0)
}

func (m *MockArchiveRepository) List(ctx context.Context, filter models.ArchiveFilter) ([]models.ArchiveEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ArchiveEntry), args.Error(1)
}

func (m *MockArchiveRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
