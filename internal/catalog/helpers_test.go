package catalog

import (
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

func good(id int64, name, category string, actual, discount int64, rating float64) models.Good {
	g := models.Good{
		ID:           id,
		Name:         name,
		MainCategory: category,
		ActualPrice:  decimal.NewFromInt(actual),
		Rating:       rating,
	}
	if discount != 0 {
		g.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(discount))
	}
	return g
}

func sampleGoods() []models.Good {
	return []models.Good{
		good(1, "Электрический чайник", "Кухня", 2000, 1500, 4.5),
		good(2, "Чайник заварочный", "Кухня", 800, 0, 4.8),
		good(3, "Кружка", "Посуда", 300, 350, 3.9),
		good(4, "Пылесос", "Техника", 12000, 9990, 4.1),
		good(5, "Без категории", "", 500, 0, 0),
		good(6, "Заварка", "Чай", 250, -1, 4.0),
	}
}

func manyGoods(n int) []models.Good {
	out := make([]models.Good, n)
	for i := range out {
		out[i] = good(int64(i+1), "Товар", "Разное", int64(100+i), 0, 0)
	}
	return out
}

func ids(goods []models.Good) []int64 {
	out := make([]int64, len(goods))
	for i, g := range goods {
		out[i] = g.ID
	}
	return out
}

func price(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}
