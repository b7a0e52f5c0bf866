package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Good is a catalog item as served by the goods endpoint.
type Good struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	ActualPrice   decimal.Decimal     `json:"actual_price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	MainCategory  string              `json:"main_category"`
	SubCategory   string              `json:"sub_category,omitempty"`
	Rating        float64             `json:"rating"`
	ImageURL      string              `json:"image_url"`

	// Missing marks a stand-in for a good that could not be fetched.
	Missing bool `json:"-"`
}

// HasDiscount reports whether the discount price is present and strictly
// undercuts the actual price. Non-positive discount prices count as absent.
func (g Good) HasDiscount() bool {
	return g.DiscountPrice.Valid &&
		g.DiscountPrice.Decimal.IsPositive() &&
		g.DiscountPrice.Decimal.LessThan(g.ActualPrice)
}

// EffectivePrice is the price the customer pays.
func (g Good) EffectivePrice() decimal.Decimal {
	if g.HasDiscount() {
		return g.DiscountPrice.Decimal
	}
	return g.ActualPrice
}

type Order struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Subscribe        Flag      `json:"subscribe"`
	DeliveryAddress  string    `json:"delivery_address"`
	DeliveryDate     string    `json:"delivery_date"`
	DeliveryInterval string    `json:"delivery_interval"`
	Comment          string    `json:"comment"`
	GoodIDs          []int64   `json:"good_ids"`
	CreatedAt        Timestamp `json:"created_at"`
	UpdatedAt        Timestamp `json:"updated_at"`
}

// Apply merges the editable fields of u into the order.
func (o *Order) Apply(u OrderUpdate) {
	o.FullName = u.FullName
	o.Email = u.Email
	o.Phone = u.Phone
	o.DeliveryAddress = u.DeliveryAddress
	o.DeliveryDate = u.DeliveryDate
	o.DeliveryInterval = u.DeliveryInterval
	o.Comment = u.Comment
}

// OrderDraft is the payload of POST /orders.
type OrderDraft struct {
	FullName         string  `json:"full_name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Phone            string  `json:"phone" validate:"required,phone"`
	Subscribe        Flag    `json:"subscribe"`
	DeliveryAddress  string  `json:"delivery_address" validate:"required"`
	DeliveryDate     string  `json:"delivery_date" validate:"required"`
	DeliveryInterval string  `json:"delivery_interval" validate:"required"`
	Comment          string  `json:"comment"`
	GoodIDs          []int64 `json:"good_ids" validate:"required,min=1"`
}

// OrderUpdate is the payload of PUT /orders/{id}. It carries only the
// fields a customer may edit after placing the order.
type OrderUpdate struct {
	FullName         string `json:"full_name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,phone"`
	DeliveryAddress  string `json:"delivery_address" validate:"required"`
	DeliveryDate     string `json:"delivery_date" validate:"required"`
	DeliveryInterval string `json:"delivery_interval" validate:"required"`
	Comment          string `json:"comment"`
}

// Flag is a boolean that also accepts 0/1 and quoted booleans on decode.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch s {
	case "", "null":
		*f = false
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*f = n != 0
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("parse flag %q: %w", s, err)
	}
	*f = Flag(b)
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp decodes the server's timestamps, which may omit the zone.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q: unknown layout", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
