// Package orders is the account view: the customer's orders with their
// goods resolved, and the view, edit and delete flows.
package orders

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/safar/go-storefront/internal/format"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/notify"
	"github.com/safar/go-storefront/internal/validation"
	"go.uber.org/zap"
)

const (
	MsgLoadFailed   = "Ошибка загрузки заказов"
	MsgDetailFailed = "Ошибка загрузки данных заказа"
	MsgUpdated      = "Заказ успешно обновлен"
	MsgDeleted      = "Заказ успешно удален"
	msgUpdateFailed = "Ошибка обновления заказа: "
	msgDeleteFailed = "Ошибка удаления заказа: "
)

var (
	ErrUnknownOrder    = errors.New("order not found")
	ErrNoPendingDelete = errors.New("no order awaiting delete confirmation")
)

type OrdersAPI interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	UpdateOrder(ctx context.Context, id int64, update models.OrderUpdate) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type GoodsResolver interface {
	Resolve(ctx context.Context, ids []int64) map[int64]models.Good
}

// Manager holds the loaded orders. Its lock is never held across a call to
// the API.
type Manager struct {
	api      OrdersAPI
	goods    GoodsResolver
	notifier notify.Notifier
	log      *zap.Logger

	mtx           sync.Mutex
	orders        []models.Order
	goodsByID     map[int64]models.Good
	pendingDelete *int64
}

func NewManager(api OrdersAPI, goods GoodsResolver, notifier notify.Notifier, log *zap.Logger) *Manager {
	return &Manager{
		api:       api,
		goods:     goods,
		notifier:  notifier,
		log:       log.Named("orders"),
		goodsByID: make(map[int64]models.Good),
	}
}

func (m *Manager) fail(msg string, err error) {
	m.log.Error(msg, zap.Error(err))
	m.notifier.Notify(notify.Error, msg)
}

// Load fetches every order and then resolves the goods they reference, each
// distinct id once. On failure the previously loaded orders stay in place.
func (m *Manager) Load(ctx context.Context) error {
	list, err := m.api.ListOrders(ctx)
	if err != nil {
		m.fail(MsgLoadFailed, err)
		return err
	}

	var ids []int64
	for _, o := range list {
		ids = append(ids, o.GoodIDs...)
	}
	resolved := m.goods.Resolve(ctx, ids)

	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.orders = list
	for id, g := range resolved {
		m.goodsByID[id] = g
	}
	m.log.Debug("Orders loaded", zap.Int("orders", len(list)), zap.Int("goods", len(resolved)))
	return nil
}

func (m *Manager) Orders() []models.Order {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return slices.Clone(m.orders)
}

func (m *Manager) Summaries() []Summary {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	out := make([]Summary, len(m.orders))
	for i, o := range m.orders {
		out[i] = summarize(i+1, o, m.goodsByID)
	}
	return out
}

func (m *Manager) fetchOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := m.api.GetOrder(ctx, id)
	if err != nil {
		m.fail(MsgDetailFailed, err)
		return nil, err
	}
	return order, nil
}

// View fetches the current state of an order for display.
func (m *Manager) View(ctx context.Context, id int64) (*Detail, error) {
	order, err := m.fetchOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	resolved := m.goods.Resolve(ctx, order.GoodIDs)

	m.mtx.Lock()
	for id, g := range resolved {
		m.goodsByID[id] = g
	}
	m.mtx.Unlock()

	return newDetail(*order, resolved), nil
}

// EditForm carries the editable fields. DeliveryDate is "YYYY-MM-DD";
// MinDate is the earliest date the form accepts.
type EditForm struct {
	ID               int64
	FullName         string
	Email            string
	Phone            string
	DeliveryAddress  string
	DeliveryDate     string
	DeliveryInterval string
	Comment          string
	MinDate          string
}

// BeginEdit fetches the order and pre-fills a form from it.
func (m *Manager) BeginEdit(ctx context.Context, id int64, now time.Time) (*EditForm, error) {
	order, err := m.fetchOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	date := order.DeliveryDate
	if strings.Contains(date, ".") {
		if converted, err := format.InputDate(date); err == nil {
			date = converted
		}
	}

	return &EditForm{
		ID:               order.ID,
		FullName:         order.FullName,
		Email:            order.Email,
		Phone:            order.Phone,
		DeliveryAddress:  order.DeliveryAddress,
		DeliveryDate:     date,
		DeliveryInterval: order.DeliveryInterval,
		Comment:          order.Comment,
		MinDate:          validation.MinDeliveryDate(now).Format(format.InputDateLayout),
	}, nil
}

func (f EditForm) update() models.OrderUpdate {
	return models.OrderUpdate{
		FullName:         strings.TrimSpace(f.FullName),
		Email:            strings.TrimSpace(f.Email),
		Phone:            strings.TrimSpace(f.Phone),
		DeliveryAddress:  strings.TrimSpace(f.DeliveryAddress),
		DeliveryDate:     strings.TrimSpace(f.DeliveryDate),
		DeliveryInterval: strings.TrimSpace(f.DeliveryInterval),
		Comment:          f.Comment,
	}
}

func (f EditForm) Validate(now time.Time) error {
	errs := []error{validation.Validate(f.update())}
	if strings.TrimSpace(f.DeliveryDate) != "" {
		_, err := validation.DeliveryDate(f.DeliveryDate, now)
		errs = append(errs, err)
	}
	return validation.Merge(errs...)
}

// SaveEdit sends the editable fields and merges them into the local list in
// place. updated_at comes from the server, or now when it sends none.
func (m *Manager) SaveEdit(ctx context.Context, form EditForm, now time.Time) (*models.Order, error) {
	if err := form.Validate(now); err != nil {
		return nil, err
	}

	update := form.update()
	displayDate, err := format.DisplayDate(update.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("convert delivery date: %w", err)
	}
	update.DeliveryDate = displayDate

	result, err := m.api.UpdateOrder(ctx, form.ID, update)
	if err != nil {
		m.log.Error("Failed to update order", zap.Int64("order_id", form.ID), zap.Error(err))
		m.notifier.Notify(notify.Error, msgUpdateFailed+err.Error())
		return nil, err
	}

	updatedAt := now
	if result != nil && !result.UpdatedAt.IsZero() {
		updatedAt = result.UpdatedAt.Time
	}

	m.mtx.Lock()
	merged := models.Order{ID: form.ID}
	if i := m.indexOf(form.ID); i >= 0 {
		m.orders[i].Apply(update)
		m.orders[i].UpdatedAt = models.Timestamp{Time: updatedAt}
		merged = m.orders[i]
	} else {
		merged.Apply(update)
		merged.UpdatedAt = models.Timestamp{Time: updatedAt}
	}
	m.mtx.Unlock()

	m.notifier.Notify(notify.Success, MsgUpdated)
	return &merged, nil
}

func (m *Manager) indexOf(id int64) int {
	return slices.IndexFunc(m.orders, func(o models.Order) bool { return o.ID == id })
}

// RequestDelete marks a loaded order for deletion. Nothing is sent until
// ConfirmDelete.
func (m *Manager) RequestDelete(id int64) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.indexOf(id) < 0 {
		return fmt.Errorf("request delete %d: %w", id, ErrUnknownOrder)
	}
	m.pendingDelete = &id
	return nil
}

func (m *Manager) PendingDelete() (int64, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.pendingDelete == nil {
		return 0, false
	}
	return *m.pendingDelete, true
}

func (m *Manager) CancelDelete() {
	m.mtx.Lock()
	m.pendingDelete = nil
	m.mtx.Unlock()
}

// ConfirmDelete deletes the pending order remotely and then locally. On
// failure the order stays pending so the confirmation can be retried.
func (m *Manager) ConfirmDelete(ctx context.Context) error {
	id, ok := m.PendingDelete()
	if !ok {
		return ErrNoPendingDelete
	}

	if err := m.api.DeleteOrder(ctx, id); err != nil {
		m.log.Error("Failed to delete order", zap.Int64("order_id", id), zap.Error(err))
		m.notifier.Notify(notify.Error, msgDeleteFailed+err.Error())
		return err
	}

	m.mtx.Lock()
	if i := m.indexOf(id); i >= 0 {
		m.orders = slices.Delete(m.orders, i, i+1)
	}
	m.pendingDelete = nil
	m.mtx.Unlock()

	m.notifier.Notify(notify.Success, MsgDeleted)
	return nil
}
