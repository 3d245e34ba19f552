package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/repo"
	"github.com/light-bringer/salecat-service/internal/config"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
	"github.com/light-bringer/salecat-service/internal/pkg/committer"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
)

// Storage is the snapshot backend selected by configuration, together with
// the client it owns.
type Storage struct {
	SpannerClient *spanner.Client
	RedisClient   *redis.Client
	Snapshots     contracts.SnapshotRepository
}

// OpenStorage connects to the configured snapshot backend.
func OpenStorage(ctx context.Context, cfg *config.Config, clk clock.Clock) (*Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendSpanner:
		client, err := spanner.NewClient(ctx, cfg.Storage.SpannerDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		logger.Info(ctx, "using spanner snapshot storage", zap.String("database", cfg.Storage.SpannerDatabase))
		return &Storage{
			SpannerClient: client,
			Snapshots:     repo.NewSpannerSnapshotRepo(client, committer.NewCommitter(client), clk),
		}, nil

	case config.BackendRedis:
		client, err := repo.NewRedisClient(cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		logger.Info(ctx, "using redis snapshot storage")
		return &Storage{
			RedisClient: client,
			Snapshots:   repo.NewRedisSnapshotRepo(client, clk),
		}, nil

	case config.BackendMemory:
		logger.Warn(ctx, "using in-memory snapshot storage; the catalog is lost on restart")
		return &Storage{Snapshots: repo.NewMemorySnapshotRepo(clk)}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close closes the backend client, if any.
func (s *Storage) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
	if s.RedisClient != nil {
		_ = s.RedisClient.Close()
	}
}
