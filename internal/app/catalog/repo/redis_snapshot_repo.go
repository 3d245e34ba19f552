package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/models/m_entity"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
)

const (
	versionSuffix = ":version"
	savedAtSuffix = ":saved_at"
)

var errStaleVersion = errors.New("stale snapshot version")

// RedisSnapshotRepo implements SnapshotRepository on Redis. The payload lives
// under the snapshot key itself; the version and save time live in sibling keys.
type RedisSnapshotRepo struct {
	client *redis.Client
	codec  *m_entity.Model
	clock  clock.Clock
}

// NewRedisSnapshotRepo creates a new RedisSnapshotRepo.
func NewRedisSnapshotRepo(client *redis.Client, clk clock.Clock) contracts.SnapshotRepository {
	return &RedisSnapshotRepo{
		client: client,
		codec:  m_entity.NewModel(),
		clock:  clk,
	}
}

// NewRedisClient parses a redis:// URL and creates a client.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Load reads the payload and its version in one round trip.
func (r *RedisSnapshotRepo) Load(ctx context.Context, key string) (*contracts.Snapshot, error) {
	pipe := r.client.Pipeline()
	payloadCmd := pipe.Get(ctx, key)
	versionCmd := pipe.Get(ctx, key+versionSuffix)
	savedAtCmd := pipe.Get(ctx, key+savedAtSuffix)
	_, _ = pipe.Exec(ctx)
	for _, cmd := range []redis.Cmder{versionCmd, savedAtCmd} {
		if err := cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
	}

	snap := &contracts.Snapshot{Key: key, Records: []domain.RawRecord{}}

	payload, err := payloadCmd.Bytes()
	switch {
	case err == nil:
		snap.Records = r.codec.Decode(payload)
	case errors.Is(err, redis.Nil):
	case redis.HasErrorPrefix(err, "WRONGTYPE"):
		// A key of another Redis type is unreadable data, not a backend failure.
		logger.Warn(ctx, "snapshot key holds a non-string value, loading empty catalog", zap.String("key", key))
	default:
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if v, err := versionCmd.Int64(); err == nil {
		snap.Version = v
	}
	if ts, err := savedAtCmd.Int64(); err == nil {
		snap.SavedAt = time.Unix(0, ts).UTC()
	}

	return snap, nil
}

// Save writes the payload inside a WATCH/MULTI transaction guarded by the version key.
func (r *RedisSnapshotRepo) Save(ctx context.Context, snap *contracts.Snapshot, expectedVersion int64) error {
	payload, err := r.codec.Encode(snap.Records)
	if err != nil {
		return err
	}

	versionKey := snap.Key + versionSuffix
	now := r.clock.Now()

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != expectedVersion {
			return errStaleVersion
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, snap.Key, payload, 0)
			pipe.Set(ctx, versionKey, expectedVersion+1, 0)
			pipe.Set(ctx, snap.Key+savedAtSuffix, now.UnixNano(), 0)
			return nil
		})
		return err
	}, snap.Key, versionKey)

	switch {
	case errors.Is(err, errStaleVersion), errors.Is(err, redis.TxFailedErr):
		return &domain.ConflictError{ID: snap.Key}
	case err != nil:
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	snap.Version = expectedVersion + 1
	snap.SavedAt = now
	return nil
}
