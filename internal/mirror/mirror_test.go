package mirror_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/tfmsync/internal/mirror"
	"github.com/vytor/tfmsync/internal/models"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestNoop(t *testing.T) {
	var p mirror.Publisher = mirror.Noop{}
	assert.NoError(t, p.Publish(context.Background(), models.EmptySnapshot("t")))
}

func TestRedisMirror_Publish(t *testing.T) {
	ctx := context.Background()
	srv, client := newRedis(t)

	snap := &models.Snapshot{
		Players:     []models.Player{{ID: 1, Name: "Kiho", Games: []models.Result{}}},
		Games:       []models.Game{{ID: 7, Date: "2024. 05. 01.", Results: []models.Result{}}},
		LastUpdated: "2024-05-01T10:00:00Z",
	}
	require.NoError(t, mirror.NewRedisMirror(client).Publish(ctx, snap))

	data, err := srv.Get(mirror.DataKey)
	require.NoError(t, err)
	var stored models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(data), &stored))
	assert.Equal(t, *snap, stored)

	lastUpdated, err := srv.Get(mirror.LastUpdatedKey)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", lastUpdated)

	entries, err := client.XRange(ctx, mirror.UpdatesStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]interface{}{
		"last_updated": "2024-05-01T10:00:00Z",
		"players":      "1",
		"games":        "1",
	}, entries[0].Values)
}

func TestRedisMirror_OverwritesKeysAndAppendsStream(t *testing.T) {
	ctx := context.Background()
	srv, client := newRedis(t)
	m := mirror.NewRedisMirror(client)

	require.NoError(t, m.Publish(ctx, models.EmptySnapshot("first")))
	require.NoError(t, m.Publish(ctx, models.EmptySnapshot("second")))

	lastUpdated, err := srv.Get(mirror.LastUpdatedKey)
	require.NoError(t, err)
	assert.Equal(t, "second", lastUpdated)

	n, err := client.XLen(ctx, mirror.UpdatesStream).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedisMirror_CapsUpdatesStream(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	m := mirror.NewRedisMirror(client, mirror.WithStreamMaxLen(3))

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Publish(ctx, models.EmptySnapshot(fmt.Sprintf("t%d", i))))
	}

	entries, err := client.XRange(ctx, mirror.UpdatesStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "t2", entries[0].Values["last_updated"])
	assert.Equal(t, "t4", entries[2].Values["last_updated"])
}

func TestRedisMirror_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	err := mirror.NewRedisMirror(client).Publish(context.Background(), models.EmptySnapshot("t"))

	assert.ErrorContains(t, err, "mirror snapshot")
}

func TestConnect(t *testing.T) {
	srv, _ := newRedis(t)

	client, err := mirror.Connect(context.Background(), "redis://"+srv.Addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = mirror.Connect(context.Background(), "not-a-url")
	assert.ErrorContains(t, err, "parse redis url")
}
