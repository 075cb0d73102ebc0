package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/tfmsync/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueMirror(snap *models.Snapshot) error {
	args := m.Called(snap)
	return args.Error(0)
}
