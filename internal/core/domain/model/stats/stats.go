// Package stats defines AggregateStats, the dashboard read model derived from
// the full set of orders. Values are never persisted as a source of truth; the
// aggregation engine recomputes them from scratch.
package stats

import (
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
)

// TopProductsLimit is the number of products reported in TopProducts.
const TopProductsLimit = 5

// DailyRevenueDays is the number of most recent dates reported in DailyRevenue.
const DailyRevenueDays = 7

// DateLayout formats DailyRevenue dates. Dates are UTC calendar days.
const DateLayout = "2006-01-02"

// ProductCount is how many order lines referenced a product.
type ProductCount struct {
	ProductID string
	Name      string
	Count     int
}

// CategoryRevenue is the summed line subtotals of one catalog category.
type CategoryRevenue struct {
	Category string
	Revenue  kernel.Money
}

// DailyRevenue is the summed order totals of one UTC calendar day.
type DailyRevenue struct {
	Date    string
	Revenue kernel.Money
}

// AggregateStats is an immutable snapshot of dashboard statistics.
// Maps always contain every valid status and type, including zero counts.
type AggregateStats struct {
	TotalOrders       int
	TotalRevenue      kernel.Money
	CountsByStatus    map[order.Status]int
	CountsByType      map[order.Type]int
	TypeShares        map[order.Type]float64
	AverageOrderValue kernel.Money
	TopProducts       []ProductCount
	RevenueByCategory []CategoryRevenue
	DailyRevenue      []DailyRevenue
	ComputedAt        time.Time
	SourceVersion     uint64
}

// Empty returns the statistics of an empty order set.
func Empty(computedAt time.Time) AggregateStats {
	s := AggregateStats{
		TotalRevenue:      kernel.ZeroMoney(),
		CountsByStatus:    make(map[order.Status]int, len(order.AllStatuses())),
		CountsByType:      make(map[order.Type]int, len(order.AllTypes())),
		TypeShares:        make(map[order.Type]float64, len(order.AllTypes())),
		AverageOrderValue: kernel.ZeroMoney(),
		TopProducts:       []ProductCount{},
		RevenueByCategory: []CategoryRevenue{},
		DailyRevenue:      []DailyRevenue{},
		ComputedAt:        computedAt.UTC(),
	}
	for _, status := range order.AllStatuses() {
		s.CountsByStatus[status] = 0
	}
	for _, t := range order.AllTypes() {
		s.CountsByType[t] = 0
		s.TypeShares[t] = 0
	}
	return s
}
