package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/safar/go-storefront/internal/api"
	"github.com/safar/go-storefront/internal/goods"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/notify"
	"github.com/safar/go-storefront/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2024, 12, 19, 15, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	mtx   sync.Mutex
	calls map[int64]int
}

var catalogGoods = map[int64]models.Good{
	5: {ID: 5, Name: "Чайник", ActualPrice: decimal.NewFromInt(100)},
	7: {ID: 7, Name: "Кружка", ActualPrice: decimal.NewFromInt(200),
		DiscountPrice: decimal.NewNullDecimal(decimal.NewFromInt(150))},
}

func (f *fakeFetcher) GetGood(_ context.Context, id int64) (*models.Good, error) {
	f.mtx.Lock()
	f.calls[id]++
	f.mtx.Unlock()
	g, ok := catalogGoods[id]
	if !ok {
		return nil, &api.RequestError{Message: "Товар не найден", StatusCode: 404}
	}
	return &g, nil
}

type fakeAPI struct {
	orders       []models.Order
	listErr      error
	getErr       error
	updateErr    error
	deleteErr    error
	updateResult *models.Order

	updates []models.OrderUpdate
	deletes []int64
}

func (f *fakeAPI) ListOrders(context.Context) ([]models.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeAPI) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, o := range f.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, &api.RequestError{Message: "Заказ не найден", StatusCode: 404}
}

func (f *fakeAPI) UpdateOrder(_ context.Context, id int64, u models.OrderUpdate) (*models.Order, error) {
	f.updates = append(f.updates, u)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateResult != nil {
		return f.updateResult, nil
	}
	return &models.Order{ID: id}, nil
}

func (f *fakeAPI) DeleteOrder(_ context.Context, id int64) error {
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func ts(s string) models.Timestamp {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return models.Timestamp{Time: t}
}

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID: 11, FullName: "Иван Петров", Email: "ivan@example.com", Phone: "+7 900 000-00-00",
			DeliveryAddress: "Москва", DeliveryDate: "25.12.2024", DeliveryInterval: "08:00-12:00",
			GoodIDs: []int64{5, 5, 7}, CreatedAt: ts("2024-12-19T10:00:00"),
		},
		{ID: 12, GoodIDs: []int64{7, 9}, DeliveryDate: "26.12.2024", DeliveryInterval: "18:00-22:00"},
		{ID: 13},
	}
}

func newTestManager(t *testing.T) (*Manager, *fakeAPI, *fakeFetcher, *notify.Recorder) {
	t.Helper()
	fapi := &fakeAPI{orders: sampleOrders()}
	fetcher := &fakeFetcher{calls: map[int64]int{}}
	rec := &notify.Recorder{}
	m := NewManager(fapi, goods.NewCache(fetcher, zap.NewNop()), rec, zap.NewNop())
	return m, fapi, fetcher, rec
}

func TestLoadResolvesEachGoodOnce(t *testing.T) {
	m, _, fetcher, _ := newTestManager(t)
	require.NoError(t, m.Load(context.Background()))

	assert.Equal(t, map[int64]int{5: 1, 7: 1, 9: 1}, fetcher.calls)
	assert.Len(t, m.Orders(), 3)

	// A reload serves found goods from the cache and retries the missing one.
	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, map[int64]int{5: 1, 7: 1, 9: 2}, fetcher.calls)
}

func TestSummaries(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	require.NoError(t, m.Load(context.Background()))

	s := m.Summaries()
	require.Len(t, s, 3)

	assert.Equal(t, 1, s[0].Seq)
	assert.Equal(t, int64(11), s[0].ID)
	assert.Equal(t, "19.12.2024, 10:00", s[0].Created)
	assert.Equal(t, "Чайник, Чайник, +1 еще...", s[0].Goods.Short)
	assert.Equal(t, "Чайник, Чайник, Кружка", s[0].Goods.Full)
	assert.True(t, s[0].Total.Equal(decimal.NewFromInt(350)), "got %s", s[0].Total)
	assert.Equal(t, "25.12.2024 08:00-12:00", s[0].Delivery)

	assert.Equal(t, "Кружка, Товар #9", s[1].Goods.Short)
	assert.True(t, s[1].Total.Equal(decimal.NewFromInt(150)))

	assert.Equal(t, MsgNoGoods, s[2].Goods.Short)
	assert.True(t, s[2].Total.IsZero())
	assert.Equal(t, "Не указано", s[2].Created)
	assert.Equal(t, "Не указано", s[2].Delivery)
}

func TestLoadFailureKeepsOrders(t *testing.T) {
	m, fapi, _, rec := newTestManager(t)
	require.NoError(t, m.Load(context.Background()))

	fapi.listErr = &api.RequestError{Message: "Ошибка запроса"}
	require.Error(t, m.Load(context.Background()))

	assert.Len(t, m.Orders(), 3)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Error, last.Kind)
	assert.Equal(t, MsgLoadFailed, last.Message)
}

func TestViewDetail(t *testing.T) {
	m, fapi, _, rec := newTestManager(t)

	d, err := m.View(context.Background(), 11)
	require.NoError(t, err)
	assert.True(t, d.Total.Equal(decimal.NewFromInt(350)))
	assert.Empty(t, d.Updated)

	fields := d.Fields()
	labels := make(map[string]string, len(fields))
	for _, f := range fields {
		labels[f.Label] = f.Value
	}
	assert.Equal(t, "Иван Петров", labels["Имя"])
	assert.Equal(t, MsgNoComment, labels["Комментарий"])
	assert.Equal(t, "Нет", labels["Подписка на рассылку"])
	assert.Equal(t, "350 руб.", labels["Итоговая стоимость"])
	assert.NotContains(t, labels, "Дата обновления")

	fapi.getErr = errors.New("timeout")
	_, err = m.View(context.Background(), 11)
	require.Error(t, err)
	last, _ := rec.Last()
	assert.Equal(t, MsgDetailFailed, last.Message)
}

func TestEditDateRoundTrip(t *testing.T) {
	m, fapi, _, rec := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	form, err := m.BeginEdit(ctx, 11, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-25", form.DeliveryDate)
	assert.Equal(t, "2024-12-20", form.MinDate)
	assert.Equal(t, "Иван Петров", form.FullName)

	form.Comment = "позвонить заранее"
	fapi.updateResult = &models.Order{ID: 11, UpdatedAt: ts("2024-12-19T16:30:00")}

	merged, err := m.SaveEdit(ctx, *form, now)
	require.NoError(t, err)

	require.Len(t, fapi.updates, 1)
	assert.Equal(t, "25.12.2024", fapi.updates[0].DeliveryDate)
	assert.Equal(t, "позвонить заранее", fapi.updates[0].Comment)

	assert.Equal(t, "25.12.2024", merged.DeliveryDate)
	assert.Equal(t, ts("2024-12-19T16:30:00").Time, merged.UpdatedAt.Time)

	local := m.Orders()[0]
	assert.Equal(t, "позвонить заранее", local.Comment)
	assert.Equal(t, []int64{5, 5, 7}, local.GoodIDs)
	assert.Equal(t, ts("2024-12-19T10:00:00").Time, local.CreatedAt.Time)

	last, _ := rec.Last()
	assert.Equal(t, MsgUpdated, last.Message)
}

func TestSaveEditDefaultsUpdatedAtToNow(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	form, err := m.BeginEdit(ctx, 12, now)
	require.NoError(t, err)
	form.FullName = "Анна"
	form.Email = "anna@example.com"
	form.Phone = "8 (900) 123-45-67"
	form.DeliveryAddress = "Казань"

	_, err = m.SaveEdit(ctx, *form, now)
	require.NoError(t, err)
	assert.Equal(t, now, m.Orders()[1].UpdatedAt.Time)
}

func TestSaveEditRejectsInvalidForm(t *testing.T) {
	m, fapi, _, _ := newTestManager(t)
	ctx := context.Background()

	form, err := m.BeginEdit(ctx, 11, now)
	require.NoError(t, err)
	form.DeliveryDate = "2024-12-19"
	form.Email = "ivan"

	_, err = m.SaveEdit(ctx, *form, now)
	var verr *validation.ValidationError
	require.True(t, errors.As(err, &verr))
	_, ok := verr.Field("delivery_date")
	assert.True(t, ok)
	_, ok = verr.Field("email")
	assert.True(t, ok)
	assert.Empty(t, fapi.updates)
}

func TestSaveEditFailureNotifies(t *testing.T) {
	m, fapi, _, rec := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	form, err := m.BeginEdit(ctx, 11, now)
	require.NoError(t, err)
	form.Comment = "changed"
	fapi.updateErr = &api.RequestError{Message: "Некорректный телефон"}

	_, err = m.SaveEdit(ctx, *form, now)
	require.Error(t, err)
	last, _ := rec.Last()
	assert.Equal(t, notify.Error, last.Kind)
	assert.Equal(t, "Ошибка обновления заказа: Некорректный телефон", last.Message)
	assert.Empty(t, m.Orders()[0].Comment)
}

func TestDeleteConfirmation(t *testing.T) {
	m, fapi, _, rec := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	assert.ErrorIs(t, m.RequestDelete(99), ErrUnknownOrder)
	assert.ErrorIs(t, m.ConfirmDelete(ctx), ErrNoPendingDelete)

	require.NoError(t, m.RequestDelete(12))
	id, ok := m.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, int64(12), id)

	m.CancelDelete()
	_, ok = m.PendingDelete()
	assert.False(t, ok)
	assert.Len(t, m.Orders(), 3)
	assert.Empty(t, fapi.deletes)

	require.NoError(t, m.RequestDelete(12))
	require.NoError(t, m.ConfirmDelete(ctx))
	assert.Equal(t, []int64{12}, fapi.deletes)

	remaining := m.Orders()
	require.Len(t, remaining, 2)
	assert.Equal(t, int64(11), remaining[0].ID)
	assert.Equal(t, int64(13), remaining[1].ID)

	last, _ := rec.Last()
	assert.Equal(t, MsgDeleted, last.Message)
	_, ok = m.PendingDelete()
	assert.False(t, ok)
}

func TestDeleteFailureKeepsOrder(t *testing.T) {
	m, fapi, _, rec := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	fapi.deleteErr = &api.RequestError{Message: "Ошибка запроса"}
	require.NoError(t, m.RequestDelete(11))
	require.Error(t, m.ConfirmDelete(ctx))

	assert.Len(t, m.Orders(), 3)
	_, ok := m.PendingDelete()
	assert.True(t, ok)
	last, _ := rec.Last()
	assert.Equal(t, "Ошибка удаления заказа: Ошибка запроса", last.Message)
}
