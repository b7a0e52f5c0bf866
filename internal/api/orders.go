package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/safar/go-storefront/internal/models"
)

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.Request(ctx, "", "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}
	if err := c.Request(ctx, "", orderPath(id), nil, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (c *Client) CreateOrder(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	order := &models.Order{}
	if err := c.Request(ctx, http.MethodPost, "/orders", draft, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrder sends a partial update; only the editable fields travel.
func (c *Client) UpdateOrder(ctx context.Context, id int64, update models.OrderUpdate) (*models.Order, error) {
	order := &models.Order{}
	if err := c.Request(ctx, http.MethodPut, orderPath(id), update, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	var ignored json.RawMessage
	return c.Request(ctx, http.MethodDelete, orderPath(id), nil, &ignored)
}

func orderPath(id int64) string {
	return fmt.Sprintf("/orders/%d", id)
}
