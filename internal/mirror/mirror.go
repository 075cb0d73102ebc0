package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vytor/tfmsync/internal/logger"
	"github.com/vytor/tfmsync/internal/models"
)

// Keys shared with the hosted API deployment that reads the same Redis.
const (
	DataKey        = "terraforming_mars_data"
	LastUpdatedKey = "terraforming_mars_last_updated"
	UpdatesStream  = "snapshot.updates"

	DefaultStreamMaxLen = 1000
)

// Publisher receives every committed snapshot.
type Publisher interface {
	Publish(ctx context.Context, snap *models.Snapshot) error
}

// Noop discards snapshots. It is used when no Redis URL is configured.
type Noop struct{}

func (Noop) Publish(context.Context, *models.Snapshot) error { return nil }

// RedisMirror copies the snapshot into Redis and appends a change event to
// the updates stream.
type RedisMirror struct {
	client       *redis.Client
	streamMaxLen int64
}

// Option configures a RedisMirror.
type Option func(*RedisMirror)

// WithStreamMaxLen caps the updates stream at roughly n entries.
func WithStreamMaxLen(n int64) Option {
	return func(m *RedisMirror) { m.streamMaxLen = n }
}

func NewRedisMirror(client *redis.Client, opts ...Option) *RedisMirror {
	m := &RedisMirror{client: client, streamMaxLen: DefaultStreamMaxLen}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect parses url and verifies the server answers PING.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (m *RedisMirror) Publish(ctx context.Context, snap *models.Snapshot) error {
	log := logger.FromContext(ctx).WithPrefix("mirror")

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, DataKey, data, 0)
	pipe.Set(ctx, LastUpdatedKey, snap.LastUpdated, 0)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: UpdatesStream,
		MaxLen: m.streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"last_updated": snap.LastUpdated,
			"players":      len(snap.Players),
			"games":        len(snap.Games),
		},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mirror snapshot: %w", err)
	}

	log.Debug("snapshot mirrored: last_updated=%s, bytes=%d", snap.LastUpdated, len(data))
	return nil
}
