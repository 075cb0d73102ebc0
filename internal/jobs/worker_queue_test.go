package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/tfmsync/internal/jobs"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/worker"
)

type chanPublisher chan *models.Snapshot

func (c chanPublisher) Publish(_ context.Context, snap *models.Snapshot) error {
	c <- snap
	return nil
}

func TestWorkerQueue_EnqueueMirror(t *testing.T) {
	pool := worker.NewPool(1, 2)
	pool.Start(context.Background())
	defer pool.Stop(context.Background())

	published := make(chanPublisher, 1)
	queue := jobs.NewWorkerQueue(pool, published)
	snap := models.EmptySnapshot("2024-05-01T10:00:00Z")

	require.NoError(t, queue.EnqueueMirror(snap))

	select {
	case got := <-published:
		assert.Same(t, snap, got)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot was not published")
	}
}

func TestWorkerQueue_FullQueue(t *testing.T) {
	pool := worker.NewPool(1, 1)
	queue := jobs.NewWorkerQueue(pool, make(chanPublisher, 1))
	snap := models.EmptySnapshot("t")

	require.NoError(t, queue.EnqueueMirror(snap))
	assert.ErrorIs(t, queue.EnqueueMirror(snap), worker.ErrQueueFull)
}
