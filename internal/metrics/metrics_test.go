package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/tfmsync/internal/metrics"
	"github.com/vytor/tfmsync/internal/models"
	"github.com/vytor/tfmsync/internal/testutil/mocks"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/backups/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, name := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/backups/"+name, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, 1, mustGatherCount(t, m, "http_requests_total"))
}

func TestHandler_ExposesServiceCounters(t *testing.T) {
	m := metrics.New()
	m.Pushes.Inc()
	m.SyncChecks.WithLabelValues(metrics.SyncStale).Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "tfm_pushes_total 1")
	assert.Contains(t, string(body), `tfm_sync_checks_total{outcome="stale"} 1`)
}

func TestInstrumentArchive(t *testing.T) {
	m := metrics.New()
	ledger := new(mocks.MockArchiveRepository)
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger.On("Record", ctx, mock.Anything).Return(int64(1), nil).Twice()
	ledger.On("MarkPruned", ctx, models.ArchiveKindBackup, []string{"a", "b"}, at).Return(nil).Once()

	repo := metrics.InstrumentArchive(ledger, m)
	_, err := repo.Record(ctx, models.ArchiveEntry{Kind: models.ArchiveKindBackup})
	require.NoError(t, err)
	_, err = repo.Record(ctx, models.ArchiveEntry{Kind: models.ArchiveKindExport})
	require.NoError(t, err)
	require.NoError(t, repo.MarkPruned(ctx, models.ArchiveKindBackup, []string{"a", "b"}, at))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackupsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilesPruned.WithLabelValues("backup")))
	ledger.AssertExpectations(t)
}

func mustGatherCount(t *testing.T, m *metrics.Metrics, name string) int {
	t.Helper()
	n, err := testutil.GatherAndCount(m.Registry(), name)
	require.NoError(t, err)
	return n
}
