package jobs

import "github.com/vytor/tfmsync/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueMirror(snap *models.Snapshot) error
}
