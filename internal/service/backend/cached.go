package backend

import (
	"context"
	"errors"
	"time"

	"Hikari/internal/domain/models"
	drepo "Hikari/internal/domain/repository"
	"Hikari/pkg/cache"
	applogger "Hikari/pkg/logger"
)

// Cached keeps successful news and alerts responses for a short TTL so that a
// poll tick right after a selection change does not hit the backend twice.
// Holdings are never cached; failures are never cached.
type Cached struct {
	next   drepo.HoldingsBackend
	cache  cache.Service
	ttl    time.Duration
	prefix string
	log    *applogger.Logger
}

var _ drepo.HoldingsBackend = (*Cached)(nil)

// NewCached wraps next. A non-positive ttl disables caching.
func NewCached(next drepo.HoldingsBackend, c cache.Service, ttl time.Duration, prefix string, l *applogger.Logger) *Cached {
	if l == nil {
		l = applogger.Nop()
	}
	if prefix == "" {
		prefix = "hikari"
	}
	return &Cached{next: next, cache: c, ttl: ttl, prefix: prefix, log: l.Component("backend_cache")}
}

func (c *Cached) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	return c.next.ListHoldings(ctx)
}

func (c *Cached) CreateHolding(ctx context.Context, req models.CreateHoldingRequest) (models.Holding, error) {
	return c.next.CreateHolding(ctx, req)
}

func (c *Cached) UpdateHolding(ctx context.Context, id int64, req models.UpdateHoldingRequest) (models.Holding, error) {
	return c.next.UpdateHolding(ctx, id, req)
}

// DeleteHolding drops every cached resource of id once the backend confirms.
func (c *Cached) DeleteHolding(ctx context.Context, id int64) error {
	if err := c.next.DeleteHolding(ctx, id); err != nil {
		return err
	}
	if err := c.cache.DeleteByPattern(ctx, cache.Key(c.prefix, "*", id)); err != nil {
		c.log.Warn("cache invalidation failed", applogger.Int64("holding_id", id), applogger.Error(err))
	}
	return nil
}

func (c *Cached) ListNews(ctx context.Context, id int64) ([]models.NewsArticle, error) {
	return cachedList(ctx, c, c.newsKey(id), func() ([]models.NewsArticle, error) {
		return c.next.ListNews(ctx, id)
	})
}

func (c *Cached) ListAlerts(ctx context.Context, id int64) ([]models.Alert, error) {
	return cachedList(ctx, c, c.alertsKey(id), func() ([]models.Alert, error) {
		return c.next.ListAlerts(ctx, id)
	})
}

func cachedList[T any](ctx context.Context, c *Cached, key string, load func() ([]T, error)) ([]T, error) {
	if c.ttl <= 0 {
		return load()
	}

	var hit []T
	err := c.cache.Get(ctx, key, &hit)
	switch {
	case err == nil:
		if hit == nil {
			hit = []T{}
		}
		return hit, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		c.log.Warn("cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	items, err := load()
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, items, c.ttl); err != nil {
		c.log.Warn("cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return items, nil
}

func (c *Cached) newsKey(id int64) string {
	return cache.Key(c.prefix, "news", id)
}

func (c *Cached) alertsKey(id int64) string {
	return cache.Key(c.prefix, "alerts", id)
}
