package cache

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/reader/internal/compress"
	"github.com/emrgen/reader/internal/view"
	redis "github.com/redis/go-redis/v9"
)

func articleViewKey(id string) string {
	return "article:view:" + id
}

var _ ViewCache = (*RedisViewCache)(nil)

// RedisViewCache keeps encoded article views in redis. Every entry carries the
// revision it was loaded at.
type RedisViewCache struct {
	client  *redis.Client
	encoder compress.Compress
	ttl     time.Duration
}

func NewRedisViewCache(addr, password string, ttl time.Duration, encoder compress.Compress) *RedisViewCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		Protocol: 2,
	})
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &RedisViewCache{client: client, encoder: encoder, ttl: ttl}
}

// Ping checks the connection.
func (r *RedisViewCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisViewCache) Get(ctx context.Context, articleID string, revision uint64) (*view.Article, error) {
	res := r.client.Get(ctx, articleViewKey(articleID))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	cached, err := decode(r.encoder, buf)
	if err != nil {
		return nil, err
	}
	if cached.Revision != revision {
		return nil, nil
	}

	return cached.View, nil
}

func (r *RedisViewCache) Set(ctx context.Context, articleID string, revision uint64, v *view.Article) error {
	data, err := encode(r.encoder, revision, v)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, articleViewKey(articleID), data, r.ttl).Err()
}

func (r *RedisViewCache) Delete(ctx context.Context, articleID string) error {
	return r.client.Del(ctx, articleViewKey(articleID)).Err()
}

func (r *RedisViewCache) Close() error {
	return r.client.Close()
}
