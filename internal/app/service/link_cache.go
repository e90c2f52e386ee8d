package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/polylinkapp/polylink/internal/app/model"
	"github.com/polylinkapp/polylink/internal/app/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const linkCacheKeyPrefix = "link:path:"

// LinkCache is a read-through Redis cache in front of the link repository,
// keyed by path. Redis trouble fails open to Postgres. Misses in the store
// are never cached, so a fresh create is always observable by path.
type LinkCache struct {
	redis  *redis.Client
	repo   repository.LinkRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewLinkCache builds a cache. A nil redis client disables caching entirely.
func NewLinkCache(rdb *redis.Client, repo repository.LinkRepository, ttl time.Duration, logger *zap.Logger) *LinkCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LinkCache{redis: rdb, repo: repo, ttl: ttl, logger: logger}
}

// GetByPath returns the link for a public path, from cache when possible.
func (c *LinkCache) GetByPath(ctx context.Context, path string) (*model.Link, error) {
	if c.redis != nil {
		raw, err := c.redis.Get(ctx, linkCacheKeyPrefix+path).Bytes()
		switch {
		case err == nil:
			var link model.Link
			if jsonErr := json.Unmarshal(raw, &link); jsonErr == nil {
				return &link, nil
			}
			c.logger.Warn("dropping undecodable cached link", zap.String("path", path))
			_ = c.redis.Del(ctx, linkCacheKeyPrefix+path).Err()
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("link cache read failed", zap.Error(err), zap.String("path", path))
		}
	}

	link, err := c.repo.GetByPath(ctx, path)
	if err != nil {
		return nil, err
	}

	c.store(ctx, link)
	return link, nil
}

// Invalidate drops the cached entry for a path.
func (c *LinkCache) Invalidate(ctx context.Context, path string) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, linkCacheKeyPrefix+path).Err()
}

func (c *LinkCache) store(ctx context.Context, link *model.Link) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(link)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, linkCacheKeyPrefix+link.Path, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("link cache write failed", zap.Error(err), zap.String("path", link.Path))
	}
}
