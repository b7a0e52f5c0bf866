package orders

import (
	"fmt"
	"strings"

	"github.com/safar/go-storefront/internal/format"
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

const (
	MsgNoGoods     = "Нет товаров"
	MsgNoComment   = "Нет комментария"
	MsgNoOrders    = "У вас еще нет заказов"
	shortListNames = 2
)

// GoodsList is an order's goods rendered for a table cell: Short for the
// cell and Full for its tooltip.
type GoodsList struct {
	Short string
	Full  string
}

func goodName(id int64, goods map[int64]models.Good) string {
	if g, ok := goods[id]; ok && !g.Missing {
		return g.Name
	}
	return fmt.Sprintf("Товар #%d", id)
}

// NamesList names every referenced good, repeats included. More than two
// names are shortened to the first two and a remainder count.
func NamesList(ids []int64, goods map[int64]models.Good) GoodsList {
	if len(ids) == 0 {
		return GoodsList{Short: MsgNoGoods, Full: MsgNoGoods}
	}

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = goodName(id, goods)
	}

	full := strings.Join(names, ", ")
	if len(names) <= shortListNames {
		return GoodsList{Short: full, Full: full}
	}
	short := fmt.Sprintf("%s, +%d еще...", strings.Join(names[:shortListNames], ", "), len(names)-shortListNames)
	return GoodsList{Short: short, Full: full}
}

// Total sums the effective price of every referenced good, once per
// occurrence. Unknown and placeholder goods count as zero.
func Total(ids []int64, goods map[int64]models.Good) decimal.Decimal {
	total := decimal.Zero
	for _, id := range ids {
		if g, ok := goods[id]; ok {
			total = total.Add(g.EffectivePrice())
		}
	}
	return total
}

type Summary struct {
	ID       int64
	Seq      int
	Created  string
	Goods    GoodsList
	Total    decimal.Decimal
	Delivery string
}

func summarize(seq int, o models.Order, goods map[int64]models.Good) Summary {
	return Summary{
		ID:       o.ID,
		Seq:      seq,
		Created:  format.Timestamp(o.CreatedAt.Time),
		Goods:    NamesList(o.GoodIDs, goods),
		Total:    Total(o.GoodIDs, goods),
		Delivery: format.Delivery(o.DeliveryDate, o.DeliveryInterval),
	}
}

// Detail is the read-only view of a single order.
type Detail struct {
	Order    models.Order
	Goods    GoodsList
	Total    decimal.Decimal
	Delivery string
	Created  string

	// Updated is empty when the order was never changed.
	Updated string
}

type Field struct {
	Label string
	Value string
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Fields lists the detail rows in display order.
func (d *Detail) Fields() []Field {
	o := d.Order
	subscribe := "Нет"
	if o.Subscribe {
		subscribe = "Да"
	}

	fields := []Field{
		{"Имя", orDefault(o.FullName, format.NotSpecified)},
		{"Email", orDefault(o.Email, format.NotSpecified)},
		{"Телефон", orDefault(o.Phone, format.NotSpecified)},
		{"Адрес доставки", orDefault(o.DeliveryAddress, format.NotSpecified)},
		{"Дата и время доставки", d.Delivery},
		{"Комментарий", orDefault(o.Comment, MsgNoComment)},
		{"Подписка на рассылку", subscribe},
		{"Товары", d.Goods.Full},
		{"Итоговая стоимость", format.Rubles(d.Total)},
		{"Дата создания", d.Created},
	}
	if d.Updated != "" {
		fields = append(fields, Field{"Дата обновления", d.Updated})
	}
	return fields
}

func newDetail(o models.Order, goods map[int64]models.Good) *Detail {
	d := &Detail{
		Order:    o,
		Goods:    NamesList(o.GoodIDs, goods),
		Total:    Total(o.GoodIDs, goods),
		Delivery: format.Delivery(o.DeliveryDate, o.DeliveryInterval),
		Created:  format.Timestamp(o.CreatedAt.Time),
	}
	if !o.UpdatedAt.IsZero() {
		d.Updated = format.Timestamp(o.UpdatedAt.Time)
	}
	return d
}
