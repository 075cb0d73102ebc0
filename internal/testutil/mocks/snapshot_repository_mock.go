package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/tfmsync/internal/models"
)

// MockSnapshotRepository is a mock implementation of repository.SnapshotRepository.
// Update runs the supplied function against the snapshot returned by the
// "Update" expectation, mirroring the real read-modify-write.
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Read(ctx context.Context) (*models.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSnapshotRepository) Write(ctx context.Context, snap *models.Snapshot) (*models.Snapshot, error) {
	args := m.Called(ctx, snap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Update(ctx context.Context, fn func(*models.Snapshot) error) (*models.Snapshot, error) {
	args := m.Called(ctx, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	snap := args.Get(0).(*models.Snapshot)
	if err := fn(snap); err != nil {
		return nil, err
	}
	return snap, args.Error(1)
}
