package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/safar/go-storefront/internal/models"
	"go.uber.org/zap"
)

type GoodsQuery struct {
	Page      int
	PerPage   int
	SortOrder string
	Query     string
}

func (q GoodsQuery) path() string {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = 10
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))
	if q.SortOrder != "" {
		v.Set("sort_order", q.SortOrder)
	}
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	return "/goods?" + v.Encode()
}

type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalCount  int `json:"total_count"`
}

// GoodsPage is one page of the goods listing. The endpoint answers either
// with {"goods": [...], "_pagination": {...}} or with a bare array.
type GoodsPage struct {
	Goods      []models.Good
	Pagination *Pagination
}

func (p *GoodsPage) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		p.Pagination = nil
		return json.Unmarshal(trimmed, &p.Goods)
	}

	var wrapped struct {
		Goods      []models.Good `json:"goods"`
		Pagination *Pagination   `json:"_pagination"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	p.Goods = wrapped.Goods
	p.Pagination = wrapped.Pagination
	return nil
}

func (c *Client) ListGoods(ctx context.Context, q GoodsQuery) (*GoodsPage, error) {
	page := &GoodsPage{}
	if err := c.Request(ctx, "", q.path(), nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) GetGood(ctx context.Context, id int64) (*models.Good, error) {
	good := &models.Good{}
	if err := c.Request(ctx, "", fmt.Sprintf("/goods/%d", id), nil, good); err != nil {
		return nil, err
	}
	return good, nil
}

// Autocomplete returns suggestions for a partial query. It never fails:
// suggestions are an enhancement, so errors degrade to an empty list.
func (c *Client) Autocomplete(ctx context.Context, query string) []string {
	var raw json.RawMessage
	path := "/autocomplete?" + url.Values{"query": {query}}.Encode()
	if err := c.Request(ctx, "", path, nil, &raw); err != nil {
		return c.noSuggestions(query, err)
	}

	var suggestions []string
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		return c.noSuggestions(query, err)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions
}

// noSuggestions is the explicit fallback of Autocomplete.
func (c *Client) noSuggestions(query string, err error) []string {
	c.log.Warn("Autocomplete unavailable", zap.String("query", query), zap.Error(err))
	return []string{}
}
