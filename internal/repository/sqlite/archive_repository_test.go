package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
	"github.com/vytor/tfmsync/internal/repository/sqlite"
	"github.com/vytor/tfmsync/internal/testutil"
)

type ArchiveRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ArchiveRepository
	base time.Time
}

func (s *ArchiveRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewArchiveRepository(s.db)
	s.base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ArchiveRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ArchiveRepositorySuite) record(kind models.ArchiveKind, name string, offset time.Duration) int64 {
	id, err := s.repo.Record(context.Background(), models.ArchiveEntry{
		Kind:        kind,
		Filename:    name,
		Path:        "data/" + name,
		SizeBytes:   128,
		GameCount:   3,
		PlayerCount: 4,
		CreatedAt:   s.base.Add(offset),
	})
	s.Require().NoError(err)
	return id
}

func (s *ArchiveRepositorySuite) TestRecordAndList() {
	ctx := context.Background()
	id := s.record(models.ArchiveKindExport, "terraforming_mars_legacy_20190222.json", 0)
	s.Assert().Greater(id, int64(0))

	entries, err := s.repo.List(ctx, models.ArchiveFilter{})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	e := entries[0]
	s.Assert().Equal(models.ArchiveKindExport, e.Kind)
	s.Assert().Equal("terraforming_mars_legacy_20190222.json", e.Filename)
	s.Assert().Equal(int64(128), e.SizeBytes)
	s.Assert().Equal(3, e.GameCount)
	s.Assert().Equal(4, e.PlayerCount)
	s.Assert().True(s.base.Equal(e.CreatedAt), "created_at round-trips: %v", e.CreatedAt)
	s.Assert().Nil(e.PrunedAt)
}

func (s *ArchiveRepositorySuite) TestList_FiltersByKindNewestFirst() {
	ctx := context.Background()
	s.record(models.ArchiveKindBackup, "game_data_backup_20240301_120000.json", 0)
	s.record(models.ArchiveKindBackup, "game_data_backup_20240301_120001.json", time.Second)
	s.record(models.ArchiveKindExport, "terraforming_mars_legacy_20190222.json", 2*time.Second)

	entries, err := s.repo.List(ctx, models.ArchiveFilter{Kind: models.ArchiveKindBackup})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Assert().Equal("game_data_backup_20240301_120001.json", entries[0].Filename)
	s.Assert().Equal("game_data_backup_20240301_120000.json", entries[1].Filename)

	limited, err := s.repo.List(ctx, models.ArchiveFilter{Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Assert().Equal(models.ArchiveKindExport, limited[0].Kind)
}

func (s *ArchiveRepositorySuite) TestMarkPruned_HidesEntriesByDefault() {
	ctx := context.Background()
	s.record(models.ArchiveKindBackup, "game_data_backup_20240301_120000.json", 0)
	s.record(models.ArchiveKindBackup, "game_data_backup_20240301_120001.json", time.Second)

	err := s.repo.MarkPruned(ctx, models.ArchiveKindBackup, []string{"game_data_backup_20240301_120000.json"}, s.base.Add(time.Hour))
	s.Require().NoError(err)

	visible, err := s.repo.List(ctx, models.ArchiveFilter{Kind: models.ArchiveKindBackup})
	s.Require().NoError(err)
	s.Require().Len(visible, 1)
	s.Assert().Equal("game_data_backup_20240301_120001.json", visible[0].Filename)

	all, err := s.repo.List(ctx, models.ArchiveFilter{Kind: models.ArchiveKindBackup, IncludePruned: true})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Assert().NotNil(all[1].PrunedAt)
}

func (s *ArchiveRepositorySuite) TestMarkPruned_NoFilenames() {
	s.Assert().NoError(s.repo.MarkPruned(context.Background(), models.ArchiveKindBackup, nil, s.base))
}

func (s *ArchiveRepositorySuite) TestPing() {
	s.Assert().NoError(s.repo.Ping(context.Background()))
}

func TestArchiveRepositorySuite(t *testing.T) {
	suite.Run(t, new(ArchiveRepositorySuite))
}
