package catalog

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/safar/go-storefront/internal/debounce"
)

type Suggester interface {
	Autocomplete(ctx context.Context, query string) []string
}

// Autocompleter fetches suggestions once typing pauses. deliver receives the
// trimmed query and its suggestions, or nil when the dropdown should close.
// Results for anything but the latest input are dropped.
type Autocompleter struct {
	ctx       context.Context
	suggester Suggester
	deliver   func(query string, suggestions []string)
	debouncer *debounce.Debouncer

	mtx sync.Mutex
	gen uint64
}

// NewAutocompleter waits AutocompleteDelay when wait is zero.
func NewAutocompleter(ctx context.Context, s Suggester, wait time.Duration, deliver func(string, []string)) *Autocompleter {
	if wait <= 0 {
		wait = AutocompleteDelay
	}
	return &Autocompleter{
		ctx:       ctx,
		suggester: s,
		deliver:   deliver,
		debouncer: debounce.New(wait),
	}
}

func (a *Autocompleter) Input(text string) {
	a.mtx.Lock()
	a.gen++
	gen := a.gen
	a.mtx.Unlock()

	query := strings.TrimSpace(text)
	a.debouncer.Trigger(func() { a.run(gen, query) })
}

func (a *Autocompleter) run(gen uint64, query string) {
	if utf8.RuneCountInString(query) < AutocompleteMinLen {
		a.emit(gen, query, nil)
		return
	}
	a.emit(gen, query, a.suggester.Autocomplete(a.ctx, query))
}

func (a *Autocompleter) emit(gen uint64, query string, suggestions []string) {
	a.mtx.Lock()
	stale := gen != a.gen
	a.mtx.Unlock()
	if stale || a.ctx.Err() != nil {
		return
	}
	a.deliver(query, suggestions)
}

// Stop cancels any pending lookup. Input after Stop is ignored.
func (a *Autocompleter) Stop() {
	a.debouncer.Stop()
}
