package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func good(actual int64, discount *int64) Good {
	g := Good{ActualPrice: decimal.NewFromInt(actual)}
	if discount != nil {
		g.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(*discount))
	}
	return g
}

func ptr(v int64) *int64 { return &v }

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		good     Good
		want     int64
		discount bool
	}{
		{"no discount", good(100, nil), 100, false},
		{"lower discount", good(200, ptr(150)), 150, true},
		{"equal discount", good(200, ptr(200)), 200, false},
		{"higher discount", good(200, ptr(250)), 200, false},
		{"zero discount", good(200, ptr(0)), 200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, decimal.NewFromInt(tt.want).Equal(tt.good.EffectivePrice()))
			assert.Equal(t, tt.discount, tt.good.HasDiscount())
		})
	}
}

func TestGoodDecodesNullDiscount(t *testing.T) {
	var g Good
	err := json.Unmarshal([]byte(`{"id":3,"name":"Чайник","actual_price":1990,"discount_price":null,"rating":4.5}`), &g)
	require.NoError(t, err)

	assert.False(t, g.DiscountPrice.Valid)
	assert.Equal(t, "1990", g.EffectivePrice().String())
	assert.Equal(t, 4.5, g.Rating)
}

func TestOrderDecodesLooseFields(t *testing.T) {
	var o Order
	err := json.Unmarshal([]byte(`{
		"id": 12,
		"subscribe": 1,
		"delivery_date": "25.12.2024",
		"good_ids": [5, 5, 7],
		"created_at": "2024-12-20T10:15:00",
		"updated_at": null
	}`), &o)
	require.NoError(t, err)

	assert.True(t, bool(o.Subscribe))
	assert.Equal(t, []int64{5, 5, 7}, o.GoodIDs)
	assert.Equal(t, time.Date(2024, 12, 20, 10, 15, 0, 0, time.UTC), o.CreatedAt.Time)
	assert.True(t, o.UpdatedAt.IsZero())
}

func TestFlagVariants(t *testing.T) {
	for in, want := range map[string]bool{
		`true`: true, `false`: false, `0`: false, `1`: true, `"true"`: true, `null`: false,
	} {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.Equal(t, want, bool(f), in)
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &f))
}

func TestOrderApply(t *testing.T) {
	o := Order{ID: 1, GoodIDs: []int64{1, 2}, Subscribe: true}
	o.Apply(OrderUpdate{
		FullName:         "Иван",
		Email:            "ivan@example.com",
		Phone:            "+7 900 000-00-00",
		DeliveryAddress:  "Москва",
		DeliveryDate:     "25.12.2024",
		DeliveryInterval: "08:00-12:00",
		Comment:          "домофон",
	})

	assert.Equal(t, "Иван", o.FullName)
	assert.Equal(t, "25.12.2024", o.DeliveryDate)
	assert.Equal(t, []int64{1, 2}, o.GoodIDs)
	assert.True(t, bool(o.Subscribe))
}
