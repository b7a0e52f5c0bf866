// Package goods caches goods by id and resolves batches of ids against the
// API, substituting a placeholder for every good that cannot be fetched.
package goods

import (
	"context"
	"sync"

	"github.com/safar/go-storefront/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MaxConcurrentFetches = 8
	PlaceholderName      = "Товар не найден"
)

type Fetcher interface {
	GetGood(ctx context.Context, id int64) (*models.Good, error)
}

// Placeholder stands in for a good that could not be fetched. It is priced
// at zero so totals stay computable.
func Placeholder(id int64) models.Good {
	return models.Good{ID: id, Name: PlaceholderName, Missing: true}
}

// Cache lives for the whole session and is never invalidated. Placeholders
// are not cached, so a later Resolve retries the fetch.
type Cache struct {
	fetcher Fetcher
	log     *zap.Logger

	mtx   sync.Mutex
	goods map[int64]models.Good
}

func NewCache(fetcher Fetcher, log *zap.Logger) *Cache {
	return &Cache{
		fetcher: fetcher,
		log:     log.Named("goods"),
		goods:   make(map[int64]models.Good),
	}
}

func (c *Cache) Get(id int64) (models.Good, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	g, ok := c.goods[id]
	return g, ok
}

// Put seeds the cache, typically with goods already loaded by the catalog.
func (c *Cache) Put(goods ...models.Good) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	for _, g := range goods {
		if !g.Missing {
			c.goods[g.ID] = g
		}
	}
}

// Resolve returns a good for every id. Cache misses are fetched concurrently,
// at most MaxConcurrentFetches at a time; a failed fetch yields a placeholder
// for that id only.
func (c *Cache) Resolve(ctx context.Context, ids []int64) map[int64]models.Good {
	resolved := make(map[int64]models.Good, len(ids))
	var missing []int64

	c.mtx.Lock()
	for _, id := range ids {
		if _, seen := resolved[id]; seen {
			continue
		}
		if g, ok := c.goods[id]; ok {
			resolved[id] = g
			continue
		}
		resolved[id] = Placeholder(id)
		missing = append(missing, id)
	}
	c.mtx.Unlock()

	if len(missing) == 0 {
		return resolved
	}

	fetched := make([]models.Good, len(missing))
	var g errgroup.Group
	g.SetLimit(MaxConcurrentFetches)
	for i, id := range missing {
		i, id := i, id
		g.Go(func() error {
			good, err := c.fetcher.GetGood(ctx, id)
			if err != nil {
				c.log.Warn("Failed to fetch good", zap.Int64("id", id), zap.Error(err))
				fetched[i] = Placeholder(id)
				return nil
			}
			fetched[i] = *good
			return nil
		})
	}
	_ = g.Wait()

	c.Put(fetched...)
	for _, good := range fetched {
		resolved[good.ID] = good
	}
	return resolved
}
