package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/safar/go-storefront/internal/models"
)

type SortKey string

const (
	SortNone       SortKey = ""
	SortRatingAsc  SortKey = "rating_asc"
	SortRatingDesc SortKey = "rating_desc"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortNone, SortRatingAsc, SortRatingDesc, SortPriceAsc, SortPriceDesc:
		return k, nil
	}
	return SortNone, fmt.Errorf("unknown sort order %q", s)
}

// Sort returns a stably sorted copy. SortNone and unknown keys keep the
// incoming order.
func Sort(goods []models.Good, key SortKey) []models.Good {
	out := slices.Clone(goods)

	var less func(a, b models.Good) int
	switch key {
	case SortRatingAsc:
		less = func(a, b models.Good) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortRatingDesc:
		less = func(a, b models.Good) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortPriceAsc:
		less = func(a, b models.Good) int { return a.EffectivePrice().Cmp(b.EffectivePrice()) }
	case SortPriceDesc:
		less = func(a, b models.Good) int { return b.EffectivePrice().Cmp(a.EffectivePrice()) }
	default:
		return out
	}

	slices.SortStableFunc(out, less)
	return out
}
