// Package cache guarda o último snapshot lido do warehouse no Redis, para que
// réplicas e reinícios não repitam a query pesada dentro do TTL.
package cache

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/pkg/log"
)

//go:generate mockgen -source=redis.go -destination=mocks/redis.go -package=mocks

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type SnapshotStore interface {
	Load(ctx context.Context) (*domain.AdEventBatch, error)
	Store(ctx context.Context, batch *domain.AdEventBatch) error
	Invalidate(ctx context.Context) error
}

// NewRedisClient abre a conexão e valida com um PING.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 10 * time.Second, // snapshot grande
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	}).Info("cache: conectado ao Redis")

	return client, nil
}

type redisSnapshotStore struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func NewRedisSnapshotStore(client redis.Cmdable, cfg config.Redis) SnapshotStore {
	return &redisSnapshotStore{
		client: client,
		key:    cfg.Key,
		ttl:    cfg.TTL,
	}
}

// Load devolve nil, nil quando a chave não existe ou expirou.
func (s *redisSnapshotStore) Load(ctx context.Context) (*domain.AdEventBatch, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "cache: get snapshot")
	}

	var batch domain.AdEventBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, errors.Wrap(err, "cache: decode snapshot")
	}

	return &batch, nil
}

func (s *redisSnapshotStore) Store(ctx context.Context, batch *domain.AdEventBatch) error {
	if batch == nil {
		return nil
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return errors.Wrap(err, "cache: encode snapshot")
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "cache: set snapshot")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"key":   s.key,
		"rows":  len(batch.Rows),
		"bytes": len(data),
		"ttl":   s.ttl.String(),
	}).Debug("cache: snapshot gravado")

	return nil
}

func (s *redisSnapshotStore) Invalidate(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errors.Wrap(err, "cache: delete snapshot")
	}
	return nil
}
