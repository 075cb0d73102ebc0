package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockExportRepository is a mock implementation of repository.ExportRepository
type MockExportRepository struct {
	mock.Mock
}

func (m *MockExportRepository) Save(ctx context.Context, filename string, doc any) (string, int64, error) {
	args := m.Called(ctx, filename, doc)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockExportRepository) Prune(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
