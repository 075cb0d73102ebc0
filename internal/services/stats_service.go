package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/tfmsync/internal/errors"
	"github.com/vytor/tfmsync/internal/jobs"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/metrics"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
	"github.com/vytor/tfmsync/internal/stats"
)

// RecalculateResult is the persisted snapshot plus what the fold observed.
type RecalculateResult struct {
	Snapshot *models.Snapshot
	Report   stats.Report
}

// StatsService rebuilds derived player statistics from the game log
type StatsService interface {
	Recalculate(ctx context.Context) (*RecalculateResult, error)
}

type statsService struct {
	snapshots repository.SnapshotRepository
	queue     jobs.JobQueue
	metrics   *metrics.Metrics
}

// NewStatsService creates a new StatsService
func NewStatsService(snapshots repository.SnapshotRepository, queue jobs.JobQueue, m *metrics.Metrics) StatsService {
	return &statsService{snapshots: snapshots, queue: queue, metrics: m}
}

func (s *statsService) Recalculate(ctx context.Context) (*RecalculateResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("recalculating player stats")

	var report stats.Report
	snap, err := s.snapshots.Update(ctx, func(snap *models.Snapshot) error {
		report = stats.Recompute(snap)
		return nil
	})
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewNotFoundError("data file")
	}
	if err != nil {
		log.Error("failed to recalculate stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.metrics.Recalculations.Inc()
	s.metrics.UnmatchedResults.Add(float64(len(report.Unmatched)))
	for _, u := range report.Unmatched {
		log.Warn("result matched no player: game_id=%d, player_id=%d, player_name=%q", u.GameID, u.PlayerID, u.PlayerName)
	}
	if len(report.IDMismatches) > 0 {
		log.Info("%d results carry a playerId belonging to another player", len(report.IDMismatches))
	}
	enqueueMirror(ctx, s.queue, s.metrics, snap)

	log.Info("stats recalculated: players=%d, games=%d, folded=%d", len(snap.Players), len(snap.Games), report.Folded)
	return &RecalculateResult{Snapshot: snap, Report: report}, nil
}
