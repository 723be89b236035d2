package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	log "log/slog"

	"craftshare/internal/domain/posts"
	"craftshare/internal/repository"

	"github.com/redis/go-redis/v9"
)

const categoryCatalogKey = "craftshare:categories:v1"

// Categories caches the harmful category catalog. Writes go to the inner
// repository and drop the cached copy. A failing redis never fails a request;
// reads fall through to the database.
type Categories struct {
	inner  repository.CategoryRepository
	client redis.Cmdable
	ttl    time.Duration
}

func NewCategories(inner repository.CategoryRepository, client redis.Cmdable, ttl time.Duration) *Categories {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Categories{inner: inner, client: client, ttl: ttl}
}

var _ repository.CategoryRepository = (*Categories)(nil)

func (c *Categories) Catalog(ctx context.Context) (posts.CategoryCatalog, error) {
	raw, err := c.client.Get(ctx, categoryCatalogKey).Bytes()
	if err == nil {
		var cat posts.CategoryCatalog
		if jerr := json.Unmarshal(raw, &cat); jerr == nil {
			return cat, nil
		}
		log.Warn("category cache: corrupt entry", "key", categoryCatalogKey)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn("category cache: get failed", "err", err)
	}

	cat, err := c.inner.Catalog(ctx)
	if err != nil {
		return posts.CategoryCatalog{}, err
	}
	if b, jerr := json.Marshal(cat); jerr == nil {
		if serr := c.client.Set(ctx, categoryCatalogKey, b, c.ttl).Err(); serr != nil {
			log.Warn("category cache: set failed", "err", serr)
		}
	}
	return cat, nil
}

func (c *Categories) Add(ctx context.Context, kind posts.CategoryKind, name string) error {
	if err := c.inner.Add(ctx, kind, name); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *Categories) Remove(ctx context.Context, kind posts.CategoryKind, name string) error {
	if err := c.inner.Remove(ctx, kind, name); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *Categories) invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, categoryCatalogKey).Err(); err != nil {
		log.Warn("category cache: invalidate failed", "err", err)
	}
}
