package jsonfile_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/repository"
	"github.com/vytor/tfmsync/internal/repository/jsonfile"
	"github.com/vytor/tfmsync/internal/testutil"
)

type SnapshotRepositorySuite struct {
	suite.Suite
	layout  jsonfile.Layout
	clock   *testutil.Clock
	backups repository.BackupRepository
	repo    repository.SnapshotRepository
}

func (s *SnapshotRepositorySuite) SetupTest() {
	s.layout = jsonfile.Layout{Root: filepath.Join(s.T().TempDir(), "data")}
	s.clock = testutil.NewClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.backups = jsonfile.NewBackupRepository(s.layout, 10, s.clock.Now, nil)
	s.repo = jsonfile.NewSnapshotRepository(s.layout, s.backups, s.clock.Now)
}

func sampleSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Players: []models.Player{
			{ID: 1, Name: "Kiho", Games: []models.Result{}},
			{ID: 2, Name: "Minsu", Games: []models.Result{}},
		},
		Games: []models.Game{
			{ID: 1, Date: "2019. 02. 22.", Map: models.MapTharsis, Results: []models.Result{
				{PlayerID: 1, PlayerName: "Kiho", CubeColor: models.CubeRed, Corporation: "ECOLINE", Score: 98, Megacredits: 21, Rank: 1},
				{PlayerID: 2, PlayerName: "Minsu", CubeColor: models.CubeBlue, Corporation: "THARSIS REPUBLIC", Score: 70, Megacredits: 10, Rank: 2},
			}},
		},
		LastUpdated: "client-supplied",
		SelectedMap: "HELLAS",
	}
}

func (s *SnapshotRepositorySuite) TestRead_MissingFileReturnsEmpty() {
	snap, err := s.repo.Read(context.Background())
	s.Require().NoError(err)

	s.Assert().Empty(snap.Players)
	s.Assert().Empty(snap.Games)
	s.Assert().NotNil(snap.Players)
	s.Assert().Equal(models.Timestamp(s.clock.Now()), snap.LastUpdated)

	_, statErr := os.Stat(s.layout.Root)
	s.Assert().True(os.IsNotExist(statErr), "read must not create the data directory")
}

func (s *SnapshotRepositorySuite) TestWrite_StampsAndCreatesDirectories() {
	ctx := context.Background()

	written, err := s.repo.Write(ctx, sampleSnapshot())
	s.Require().NoError(err)
	s.Assert().Equal(models.Timestamp(s.clock.Now()), written.LastUpdated)

	exists, err := s.repo.Exists(ctx)
	s.Require().NoError(err)
	s.Assert().True(exists)
}

func (s *SnapshotRepositorySuite) TestRoundTrip() {
	ctx := context.Background()
	_, err := s.repo.Write(ctx, sampleSnapshot())
	s.Require().NoError(err)

	first, err := s.repo.Read(ctx)
	s.Require().NoError(err)

	s.clock.Advance(time.Second)
	_, err = s.repo.Write(ctx, first)
	s.Require().NoError(err)

	second, err := s.repo.Read(ctx)
	s.Require().NoError(err)

	s.Assert().Equal(first.Players, second.Players)
	s.Assert().Equal(first.Games, second.Games)
	s.Assert().Equal(first.SelectedMap, second.SelectedMap)
	s.Assert().NotEqual(first.LastUpdated, second.LastUpdated)
}

func (s *SnapshotRepositorySuite) TestWrite_BacksUpPreviousFileVerbatim() {
	ctx := context.Background()
	_, err := s.repo.Write(ctx, sampleSnapshot())
	s.Require().NoError(err)
	before, err := os.ReadFile(s.layout.Canonical())
	s.Require().NoError(err)

	s.clock.Advance(time.Second)
	backupTime := s.clock.Now()
	_, err = s.repo.Write(ctx, &models.Snapshot{})
	s.Require().NoError(err)

	backup, err := os.ReadFile(filepath.Join(s.layout.BackupDir(), jsonfile.BackupName(backupTime)))
	s.Require().NoError(err)
	s.Assert().Equal(before, backup)
}

func (s *SnapshotRepositorySuite) TestWrite_FirstWriteHasNoBackup() {
	_, err := s.repo.Write(context.Background(), sampleSnapshot())
	s.Require().NoError(err)

	list, err := s.backups.List(context.Background())
	s.Require().NoError(err)
	s.Assert().Empty(list)
}

func (s *SnapshotRepositorySuite) TestWrite_KeepsTenMostRecentBackups() {
	ctx := context.Background()
	var backupTimes []time.Time
	for i := 0; i < 15; i++ {
		if i > 0 {
			backupTimes = append(backupTimes, s.clock.Now())
		}
		_, err := s.repo.Write(ctx, sampleSnapshot())
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}

	list, err := s.backups.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 10)

	// 14 backups were taken; the newest 10 survive, newest first.
	for i, info := range list {
		want := jsonfile.BackupName(backupTimes[len(backupTimes)-1-i])
		s.Assert().Equal(want, info.Name)
	}
}

func (s *SnapshotRepositorySuite) TestUpdate_MissingFile() {
	_, err := s.repo.Update(context.Background(), func(*models.Snapshot) error { return nil })
	s.Assert().ErrorIs(err, repository.ErrNotFound)
}

func (s *SnapshotRepositorySuite) TestUpdate_AppliesMutation() {
	ctx := context.Background()
	_, err := s.repo.Write(ctx, sampleSnapshot())
	s.Require().NoError(err)

	updated, err := s.repo.Update(ctx, func(snap *models.Snapshot) error {
		snap.Players[0].Stats.TotalGames = 42
		return nil
	})
	s.Require().NoError(err)
	s.Assert().Equal(42, updated.Players[0].Stats.TotalGames)

	reread, err := s.repo.Read(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(42, reread.Players[0].Stats.TotalGames)
}

func (s *SnapshotRepositorySuite) TestRead_CorruptFile() {
	s.Require().NoError(os.MkdirAll(s.layout.Root, 0o755))
	s.Require().NoError(os.WriteFile(s.layout.Canonical(), []byte("{not json"), 0o644))

	_, err := s.repo.Read(context.Background())
	s.Assert().Error(err)
}

func (s *SnapshotRepositorySuite) TestConcurrentWritesLeaveValidFile() {
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			snap := sampleSnapshot()
			snap.Players[0].Stats.TotalGames = n
			_, err := s.repo.Write(ctx, snap)
			s.Assert().NoError(err)
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.Read(ctx)
			s.Assert().NoError(err)
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(s.layout.Canonical())
	s.Require().NoError(err)
	var snap models.Snapshot
	s.Require().NoError(json.Unmarshal(data, &snap))
	s.Assert().Len(snap.Players, 2)

	entries, err := os.ReadDir(s.layout.Root)
	s.Require().NoError(err)
	for _, e := range entries {
		s.Assert().False(strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestSnapshotRepositorySuite(t *testing.T) {
	suite.Run(t, new(SnapshotRepositorySuite))
}
