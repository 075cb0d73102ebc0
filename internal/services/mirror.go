package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/tfmsync/internal/jobs"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/metrics"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/worker"
)

// enqueueMirror hands a committed snapshot to the background mirror. The
// caller's request never fails because of it.
func enqueueMirror(ctx context.Context, queue jobs.JobQueue, m *metrics.Metrics, snap *models.Snapshot) {
	if queue == nil {
		return
	}
	if err := queue.EnqueueMirror(snap); err != nil {
		log := logger.FromContext(ctx)
		if stderrors.Is(err, worker.ErrQueueFull) {
			m.MirrorDropped.Inc()
			log.Warn("mirror queue full, dropping snapshot %s", snap.LastUpdated)
			return
		}
		log.Warn("failed to enqueue mirror job: %v", err)
	}
}
