package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache - минимальный key-value кэш, который нужен декоратору
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisCache - Cache поверх go-redis
type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

const taskSnapshotKey = "dashboard:tasks:snapshot"

// CachedTaskRepository кэширует снимок List. Любая запись сбрасывает кэш.
// Ошибки кэша не ломают запросы, а только логируются.
type CachedTaskRepository struct {
	next   ITaskRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
	// writes растет после каждой записи; List, прочитавший хранилище до записи,
	// по нему узнает, что положил в кэш устаревший снимок
	writes atomic.Uint64
}

func NewCachedTaskRepository(next ITaskRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedTaskRepository {
	return &CachedTaskRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedTaskRepository) invalidate(ctx context.Context) {
	r.writes.Add(1)
	if err := r.cache.Del(ctx, taskSnapshotKey); err != nil {
		r.logger.Warn("failed to invalidate task cache", zap.Error(err))
	}
}

func (r *CachedTaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	created, err := r.next.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return created, nil
}

func (r *CachedTaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedTaskRepository) Update(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	updated, err := r.next.Update(ctx, task)
	if err != nil {
		return nil, err
	}
	if updated != nil {
		r.invalidate(ctx)
	}
	return updated, nil
}

func (r *CachedTaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedTaskRepository) List(ctx context.Context) ([]entity.Task, error) {
	data, err := r.cache.Get(ctx, taskSnapshotKey)
	switch {
	case err == nil:
		var tasks []entity.Task
		if err := json.Unmarshal(data, &tasks); err == nil {
			return tasks, nil
		}
		r.logger.Warn("corrupted task cache entry, reloading")
	case !errors.Is(err, ErrCacheMiss):
		r.logger.Warn("task cache unavailable", zap.Error(err))
	}

	before := r.writes.Load()
	tasks, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(tasks); err == nil {
		if err := r.cache.Set(ctx, taskSnapshotKey, data, r.ttl); err != nil {
			r.logger.Warn("failed to cache tasks", zap.Error(err))
		}
		// запись прошла между чтением хранилища и Set
		if r.writes.Load() != before {
			if err := r.cache.Del(ctx, taskSnapshotKey); err != nil {
				r.logger.Warn("failed to drop stale task snapshot", zap.Error(err))
			}
		}
	}
	return tasks, nil
}
