// Package catalog loads goods and runs them through the client-side
// filter, sort and paginate pipeline. State changes go through Reduce; what
// the user sees is Project(state).
package catalog

import (
	"slices"
	"strings"

	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filters narrows the fetched goods. Zero value passes everything.
type Filters struct {
	Categories   []string
	MinPrice     decimal.NullDecimal
	MaxPrice     decimal.NullDecimal
	DiscountOnly bool
}

func (f Filters) IsZero() bool {
	return len(f.Categories) == 0 && !f.MinPrice.Valid && !f.MaxPrice.Valid && !f.DiscountOnly
}

// match applies every criterion; a good must pass all of them. Prices are
// compared on the effective price, bounds inclusive.
func (f Filters) match(g models.Good, query string, fold cases.Caser) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, g.MainCategory) {
		return false
	}

	price := g.EffectivePrice()
	if f.MinPrice.Valid && price.LessThan(f.MinPrice.Decimal) {
		return false
	}
	if f.MaxPrice.Valid && price.GreaterThan(f.MaxPrice.Decimal) {
		return false
	}

	if f.DiscountOnly && !g.HasDiscount() {
		return false
	}

	if q := strings.TrimSpace(query); q != "" {
		if !strings.Contains(fold.String(g.Name), fold.String(q)) {
			return false
		}
	}
	return true
}

func Filter(goods []models.Good, f Filters, query string) []models.Good {
	// A Caser must not be shared between goroutines.
	fold := cases.Fold()
	out := make([]models.Good, 0, len(goods))
	for _, g := range goods {
		if f.match(g, query, fold) {
			out = append(out, g)
		}
	}
	return out
}

// Categories lists the distinct non-blank main categories in Russian
// collation order.
func Categories(goods []models.Good) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range goods {
		c := g.MainCategory
		if strings.TrimSpace(c) == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	collate.New(language.Russian).SortStrings(out)
	return out
}
