package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/format"
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

const cardNameLen = 60

func (a *app) runGoods(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("goods", flag.ContinueOnError)
	query := fs.String("query", "", "Search text")
	sortKey := fs.String("sort", "", "Sort order")
	categories := fs.String("category", "", "Comma separated categories")
	minPrice := fs.String("min", "", "Minimum price")
	maxPrice := fs.String("max", "", "Maximum price")
	discount := fs.Bool("discount", false, "Only discounted goods")
	pages := fs.Int("pages", 1, "Pages to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, err := catalog.ParseSortKey(*sortKey)
	if err != nil {
		return err
	}
	filters, err := parseFilters(*categories, *minPrice, *maxPrice, *discount)
	if err != nil {
		return err
	}

	client, err := a.api()
	if err != nil {
		return err
	}
	c := catalog.New(client, a.notes, a.log)
	c.SetSort(key)
	if err := c.Search(ctx, *query); err != nil {
		return err
	}

	c.SetFilters(filters)
	v := c.View()
	for i := 1; i < *pages && v.HasMore; i++ {
		v = c.LoadMore()
	}

	a.printGoods(ctx, v)
	return nil
}

func parseFilters(categories, minPrice, maxPrice string, discount bool) (catalog.Filters, error) {
	f := catalog.Filters{DiscountOnly: discount}
	for _, c := range strings.Split(categories, ",") {
		if c = strings.TrimSpace(c); c != "" {
			f.Categories = append(f.Categories, c)
		}
	}

	var err error
	if f.MinPrice, err = parsePrice(minPrice); err != nil {
		return f, fmt.Errorf("parse -min: %w", err)
	}
	if f.MaxPrice, err = parsePrice(maxPrice); err != nil {
		return f, fmt.Errorf("parse -max: %w", err)
	}
	return f, nil
}

func parsePrice(s string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func priceLabel(g models.Good) string {
	if g.HasDiscount() {
		return fmt.Sprintf("%s (было %s)", format.Rubles(g.DiscountPrice.Decimal), format.Rubles(g.ActualPrice))
	}
	return format.Rubles(g.ActualPrice)
}

func ratingLabel(r float64) string {
	if r == 0 {
		return "Нет"
	}
	return fmt.Sprintf("%.1f", r)
}

func (a *app) printGoods(ctx context.Context, v catalog.View) {
	if v.Message != "" {
		fmt.Fprintln(a.out, v.Message)
		return
	}

	inCart := a.cart.IDs(ctx)
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tТовар\tРейтинг\tЦена\t")
	for _, g := range v.Goods {
		marker := ""
		if inCart.Contains(g.ID) {
			marker = "в корзине"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", g.ID, format.Truncate(g.Name, cardNameLen), ratingLabel(g.Rating), priceLabel(g), marker)
	}
	w.Flush()

	fmt.Fprintf(a.out, "Показано %d из %d\n", len(v.Goods), v.Total)
	if v.HasMore {
		fmt.Fprintf(a.out, "Ещё товары: -pages %d\n", v.Page.Page+1)
	}
}

func (a *app) runCategories(ctx context.Context, _ []string) error {
	client, err := a.api()
	if err != nil {
		return err
	}
	c := catalog.New(client, a.notes, a.log)
	if err := c.Load(ctx); err != nil {
		return err
	}

	cats := c.View().Categories
	if len(cats) == 0 {
		fmt.Fprintln(a.out, "Категории не найдены")
		return nil
	}
	for _, cat := range cats {
		fmt.Fprintln(a.out, cat)
	}
	return nil
}

func (a *app) runSuggest(ctx context.Context, args []string) error {
	client, err := a.api()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	results := make(chan []string, 1)
	ac := catalog.NewAutocompleter(ctx, client, catalog.AutocompleteDelay, func(_ string, s []string) {
		results <- s
	})
	defer ac.Stop()
	ac.Input(text)

	select {
	case suggestions := <-results:
		for _, s := range suggestions {
			fmt.Fprintln(a.out, catalog.ApplySuggestion(text, s))
		}
	case <-time.After(catalog.AutocompleteDelay + a.suggestTimeout()):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (a *app) suggestTimeout() time.Duration {
	if a.cfg.API.Timeout > 0 {
		return a.cfg.API.Timeout
	}
	return 30 * time.Second
}
