package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/safar/go-storefront/internal/api"
	"github.com/safar/go-storefront/internal/format"
	"github.com/safar/go-storefront/internal/notify"
	"go.uber.org/zap"
)

const (
	MsgLoadFailed   = "Ошибка загрузки товаров"
	MsgSearchFailed = "Ошибка поиска товаров"
)

type GoodsSource interface {
	ListGoods(ctx context.Context, q api.GoodsQuery) (*api.GoodsPage, error)
}

// Catalog drives State through Reduce around calls to the goods endpoint.
// The lock is never held while a request is in flight.
type Catalog struct {
	source   GoodsSource
	notifier notify.Notifier
	log      *zap.Logger

	mtx   sync.Mutex
	state State
}

func New(source GoodsSource, notifier notify.Notifier, log *zap.Logger) *Catalog {
	return &Catalog{
		source:   source,
		notifier: notifier,
		log:      log.Named("catalog"),
	}
}

func (c *Catalog) dispatch(e Event) View {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.state = Reduce(c.state, e)
	return Project(c.state)
}

// Load fetches the unfiltered goods list.
func (c *Catalog) Load(ctx context.Context) error {
	return c.fetch(ctx, "", SortNone, MsgLoadFailed)
}

// Search re-fetches goods for query with the current sort order. A blank
// query reloads everything.
func (c *Catalog) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.Load(ctx)
	}
	return c.fetch(ctx, query, c.State().Sort, MsgSearchFailed)
}

// SelectSuggestion puts suggestion in place of the last word of query and
// searches for the result straight away.
func (c *Catalog) SelectSuggestion(ctx context.Context, query, suggestion string) error {
	return c.Search(ctx, ApplySuggestion(query, suggestion))
}

func (c *Catalog) fetch(ctx context.Context, query string, sortKey SortKey, failMsg string) error {
	c.mtx.Lock()
	gen := c.state.Generation + 1
	c.state = Reduce(c.state, FetchStarted{Generation: gen, Query: query})
	c.mtx.Unlock()

	page, err := c.source.ListGoods(ctx, api.GoodsQuery{
		Page:      1,
		PerPage:   FetchSize,
		SortOrder: string(sortKey),
		Query:     query,
	})
	if err != nil {
		c.dispatch(FetchFailed{Generation: gen, Err: err})
		if c.isCurrent(gen) {
			c.log.Error("Failed to fetch goods", zap.String("query", query), zap.Error(err))
			c.notifier.Notify(notify.Error, failMsg)
		} else {
			c.log.Debug("Dropped stale goods failure", zap.Uint64("generation", gen), zap.Error(err))
		}
		return err
	}

	v := c.dispatch(GoodsLoaded{Generation: gen, Goods: page.Goods})
	if c.isCurrent(gen) {
		c.log.Debug("Goods loaded",
			zap.String("query", query),
			zap.Int("fetched", len(page.Goods)),
			zap.Int("matching", v.Total))
	} else {
		c.log.Debug("Dropped stale goods response", zap.Uint64("generation", gen))
	}
	return nil
}

func (c *Catalog) isCurrent(gen uint64) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.state.Generation == gen
}

func (c *Catalog) SetFilters(f Filters) View {
	return c.dispatch(FiltersChanged{Filters: f})
}

func (c *Catalog) SetSort(key SortKey) View {
	return c.dispatch(SortChanged{Key: key})
}

func (c *Catalog) LoadMore() View {
	return c.dispatch(MoreRequested{})
}

func (c *Catalog) View() View {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return Project(c.state)
}

func (c *Catalog) State() State {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.state
}

func ApplySuggestion(query, suggestion string) string {
	return format.ReplaceLastWord(query, suggestion)
}
