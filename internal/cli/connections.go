package cli

import (
	"context"
	"errors"

	"github.com/vfg2006/ad-review-dashboard/infrastructure/cache"
	"github.com/vfg2006/ad-review-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/ad-review-dashboard/infrastructure/repository"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
)

var errCacheDisabled = errors.New("redis cache is disabled (REDIS_ENABLED=false)")

// openReporting monta o serviço de relatórios como a API faz, sem métricas.
func openReporting(ctx context.Context, cfg *config.Config) (moderation.ReportingService, func(), error) {
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { conn.Close() }}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var snapshotCache moderation.SnapshotCache
	if cfg.Redis.Enabled {
		store, closeStore, err := openSnapshotStore(ctx, cfg)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, closeStore)
		snapshotCache = store
	}

	fetcher := repository.NewAdEventRepository(conn, cfg.Database)
	return moderation.NewService(cfg, fetcher, snapshotCache, nil), closeAll, nil
}

func openSnapshotStore(ctx context.Context, cfg *config.Config) (cache.SnapshotStore, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, nil, errCacheDisabled
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}

	return cache.NewRedisSnapshotStore(client, cfg.Redis), func() { client.Close() }, nil
}
