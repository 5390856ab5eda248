package orders

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/comandero/comandero/internal/domain"
)

// TopProductsLimit caps the product ranking in a report.
const TopProductsLimit = 5

// ProductCount is a ranked (product, total quantity) pair.
type ProductCount struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// Report aggregates statistics over a set of orders.
type Report struct {
	TotalOrders       int                        `json:"total_orders"`
	TotalRevenue      decimal.Decimal            `json:"total_revenue"`
	AverageOrderValue decimal.Decimal            `json:"average_order_value"`
	OrdersByStatus    map[domain.OrderStatus]int `json:"orders_by_status"`
	TopProducts       []ProductCount             `json:"top_products"`
}

// Summarize folds the given orders into a report in a single pass over
// orders and their items, plus an O(k log k) sort of the k distinct
// products for the top ranking.
//
// Revenue and average are rounded to 2 decimal places half-up (decimal.Round
// rounds half away from zero, which is half-up for non-negative amounts).
// Products with equal quantities rank by name in ascending lexical order.
func Summarize(orders []domain.Order) (*Report, error) {
	revenue := decimal.Zero
	byStatus := make(map[domain.OrderStatus]int)
	quantities := make(map[string]int)
	totals := make([]float64, 0, len(orders))

	for _, order := range orders {
		revenue = revenue.Add(order.Total)
		byStatus[order.Status]++
		totals = append(totals, order.Total.InexactFloat64())

		items, err := order.GetItems()
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			quantities[item.Product] += item.Quantity
		}
	}

	ranking := make([]ProductCount, 0, len(quantities))
	for product, qty := range quantities {
		ranking = append(ranking, ProductCount{Product: product, Quantity: qty})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Quantity != ranking[j].Quantity {
			return ranking[i].Quantity > ranking[j].Quantity
		}
		return ranking[i].Product < ranking[j].Product
	})
	if len(ranking) > TopProductsLimit {
		ranking = ranking[:TopProductsLimit]
	}

	average := decimal.Zero
	if len(totals) > 0 {
		mean, err := stats.Mean(totals)
		if err != nil {
			return nil, err
		}
		average = decimal.NewFromFloat(mean).Round(2)
	}

	return &Report{
		TotalOrders:       len(orders),
		TotalRevenue:      revenue.Round(2),
		AverageOrderValue: average,
		OrdersByStatus:    byStatus,
		TopProducts:       ranking,
	}, nil
}
