package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/safar/go-storefront/internal/format"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/notify"
	"github.com/safar/go-storefront/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MsgOrderPlaced = "Заказ успешно оформлен!"
	MsgEmptyCart   = "Добавьте товары в корзину перед оформлением заказа"
	msgOrderFailed = "Ошибка оформления заказа: "

	EveningInterval = "18:00-22:00"
)

var (
	baseDeliveryCost = decimal.NewFromInt(200)
	weekendSurcharge = decimal.NewFromInt(300)
	eveningSurcharge = decimal.NewFromInt(200)
)

var ErrEmptyCart = errors.New("cart is empty")

type GoodsResolver interface {
	Resolve(ctx context.Context, ids []int64) map[int64]models.Good
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, draft models.OrderDraft) (*models.Order, error)
}

type Line struct {
	Good     models.Good
	Quantity int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Good.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type View struct {
	Lines      []Line
	Count      int
	GoodsTotal decimal.Decimal
}

func (v *View) Empty() bool {
	return len(v.Lines) == 0
}

// Total adds the delivery cost to the goods total.
func (v *View) Total(delivery decimal.Decimal) decimal.Decimal {
	return v.GoodsTotal.Add(delivery)
}

// OrderForm is the checkout form as entered. DeliveryDate is "YYYY-MM-DD".
type OrderForm struct {
	FullName         string
	Email            string
	Phone            string
	Subscribe        bool
	DeliveryAddress  string
	DeliveryDate     string
	DeliveryInterval string
	Comment          string
}

type Checkout struct {
	cart     *Store
	goods    GoodsResolver
	orders   OrderCreator
	notifier notify.Notifier
	log      *zap.Logger
}

func NewCheckout(cart *Store, goods GoodsResolver, orders OrderCreator, notifier notify.Notifier, log *zap.Logger) *Checkout {
	return &Checkout{
		cart:     cart,
		goods:    goods,
		orders:   orders,
		notifier: notifier,
		log:      log.Named("checkout"),
	}
}

// Load resolves the cart into lines, one per distinct good in order of first
// appearance. Goods that cannot be fetched appear as placeholders.
func (c *Checkout) Load(ctx context.Context) (*View, error) {
	ids := c.cart.IDs(ctx)
	return c.view(ctx, ids)
}

func (c *Checkout) view(ctx context.Context, ids List) (*View, error) {
	v := &View{Count: ids.Count(), GoodsTotal: decimal.Zero}
	if len(ids) == 0 {
		return v, nil
	}

	distinct := ids.Distinct()
	resolved := c.goods.Resolve(ctx, distinct)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	qty := ids.Quantities()
	for _, id := range distinct {
		line := Line{Good: resolved[id], Quantity: qty[id]}
		v.Lines = append(v.Lines, line)
		v.GoodsTotal = v.GoodsTotal.Add(line.Subtotal())
	}
	return v, nil
}

// DeliveryCost prices delivery for a "YYYY-MM-DD" date and an interval.
// Weekends cost more; so do weekday evenings.
func DeliveryCost(date, interval string) decimal.Decimal {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(interval) == "" {
		return baseDeliveryCost
	}
	day, err := time.Parse(format.InputDateLayout, strings.TrimSpace(date))
	if err != nil {
		return baseDeliveryCost
	}

	cost := baseDeliveryCost
	switch wd := day.Weekday(); {
	case wd == time.Saturday || wd == time.Sunday:
		cost = cost.Add(weekendSurcharge)
	case interval == EveningInterval:
		cost = cost.Add(eveningSurcharge)
	}
	return cost
}

// Validate checks the form as of now. Failures are *validation.ValidationError.
func (f OrderForm) Validate(now time.Time) error {
	draft := f.draft(nil)
	// good_ids is checked separately against the cart.
	draft.GoodIDs = []int64{0}
	errs := []error{validation.Validate(draft)}
	if strings.TrimSpace(f.DeliveryDate) != "" {
		_, err := validation.DeliveryDate(f.DeliveryDate, now)
		errs = append(errs, err)
	}
	return validation.Merge(errs...)
}

func (f OrderForm) draft(goodIDs []int64) models.OrderDraft {
	return models.OrderDraft{
		FullName:         strings.TrimSpace(f.FullName),
		Email:            strings.TrimSpace(f.Email),
		Phone:            strings.TrimSpace(f.Phone),
		Subscribe:        models.Flag(f.Subscribe),
		DeliveryAddress:  strings.TrimSpace(f.DeliveryAddress),
		DeliveryDate:     strings.TrimSpace(f.DeliveryDate),
		DeliveryInterval: strings.TrimSpace(f.DeliveryInterval),
		Comment:          f.Comment,
		GoodIDs:          goodIDs,
	}
}

// Submit places an order for the current cart. On success the cart is
// cleared; on failure it is left intact.
func (c *Checkout) Submit(ctx context.Context, form OrderForm, now time.Time) (*models.Order, error) {
	v, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	if v.Empty() {
		c.notifier.Notify(notify.Error, MsgEmptyCart)
		return nil, ErrEmptyCart
	}

	if err := form.Validate(now); err != nil {
		return nil, err
	}

	var goodIDs []int64
	for _, line := range v.Lines {
		for i := 0; i < line.Quantity; i++ {
			goodIDs = append(goodIDs, line.Good.ID)
		}
	}

	draft := form.draft(goodIDs)
	draft.DeliveryDate, err = format.DisplayDate(draft.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("convert delivery date: %w", err)
	}

	order, err := c.orders.CreateOrder(ctx, draft)
	if err != nil {
		c.log.Error("Failed to create order", zap.Error(err))
		c.notifier.Notify(notify.Error, msgOrderFailed+err.Error())
		return nil, err
	}

	if err := c.cart.Clear(ctx); err != nil {
		c.log.Warn("Order placed but cart was not cleared", zap.Int64("order_id", order.ID), zap.Error(err))
	}
	c.notifier.Notify(notify.Success, MsgOrderPlaced)
	return order, nil
}
