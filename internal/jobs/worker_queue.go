package jobs

import (
	"github.com/vytor/tfmsync/internal/mirror"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	mirrorPool *worker.Pool
	publisher  mirror.Publisher
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(mirrorPool *worker.Pool, publisher mirror.Publisher) JobQueue {
	return &WorkerQueue{
		mirrorPool: mirrorPool,
		publisher:  publisher,
	}
}

func (q *WorkerQueue) EnqueueMirror(snap *models.Snapshot) error {
	return q.mirrorPool.Submit(&worker.MirrorSnapshotJob{
		Mirror:   q.publisher,
		Snapshot: snap,
	})
}
