package worker

import (
	"context"

	"github.com/vytor/tfmsync/internal/mirror"
	"github.com/vytor/tfmsync/internal/models"
)

// MirrorSnapshotJob copies one committed snapshot to the mirror.
type MirrorSnapshotJob struct {
	Mirror   mirror.Publisher
	Snapshot *models.Snapshot
}

func (j *MirrorSnapshotJob) Name() string { return "mirror_snapshot" }

func (j *MirrorSnapshotJob) Run(ctx context.Context) error {
	return j.Mirror.Publish(ctx, j.Snapshot)
}
