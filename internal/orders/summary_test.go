package orders

import (
	"testing"

	"github.com/safar/go-storefront/internal/goods"
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderTotal(t *testing.T) {
	total := Total([]int64{5, 5, 7}, catalogGoods)
	assert.True(t, total.Equal(decimal.NewFromInt(350)), "got %s", total)

	assert.True(t, Total(nil, catalogGoods).IsZero())
	assert.True(t, Total([]int64{404}, catalogGoods).IsZero())
}

func TestNamesList(t *testing.T) {
	resolved := map[int64]models.Good{
		5: catalogGoods[5],
		7: catalogGoods[7],
		8: goods.Placeholder(8),
	}

	tests := []struct {
		name      string
		ids       []int64
		wantShort string
		wantFull  string
	}{
		{"empty", nil, "Нет товаров", "Нет товаров"},
		{"two", []int64{5, 7}, "Чайник, Кружка", "Чайник, Кружка"},
		{"many", []int64{7, 5, 5, 7}, "Кружка, Чайник, +2 еще...", "Кружка, Чайник, Чайник, Кружка"},
		{"placeholder and unknown", []int64{8, 3}, "Товар #8, Товар #3", "Товар #8, Товар #3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NamesList(tt.ids, resolved)
			assert.Equal(t, tt.wantShort, got.Short)
			assert.Equal(t, tt.wantFull, got.Full)
		})
	}
}

func TestDetailFieldsIncludeUpdate(t *testing.T) {
	o := models.Order{ID: 1, Subscribe: true, Comment: "звонить", UpdatedAt: ts("2024-12-20T09:05:00")}
	d := newDetail(o, catalogGoods)

	fields := d.Fields()
	last := fields[len(fields)-1]
	assert.Equal(t, "Дата обновления", last.Label)
	assert.Equal(t, "20.12.2024, 09:05", last.Value)
	assert.Contains(t, fields, Field{"Подписка на рассылку", "Да"})
	assert.Contains(t, fields, Field{"Комментарий", "звонить"})
}
