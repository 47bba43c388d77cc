package services

import (
	"cmp"
	"slices"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/model/stats"
)

// UncategorizedLabel groups revenue of lines without a catalog category.
const UncategorizedLabel = "uncategorized"

// StatsCalculator recomputes AggregateStats from a complete order set. The
// result depends only on the orders, so two calculations over the same set are
// identical apart from ComputedAt.
type StatsCalculator struct{}

func NewStatsCalculator() StatsCalculator {
	return StatsCalculator{}
}

// Calculate computes statistics over orders.
//
// Orders are first put in snapshot order (createdAt ascending, then id), which
// fixes every tie-break:
//   - TopProducts: line count descending, ties by first occurrence
//   - RevenueByCategory: revenue descending, ties by first occurrence
//   - DailyRevenue: UTC dates ascending, last DailyRevenueDays dates present
//
// Parameters:
//   - orders: the full current set; the slice is not modified
//   - computedAt: timestamp stored in the result
//   - sourceVersion: sequence of the snapshot the set came from
func (c StatsCalculator) Calculate(orders []*order.Order, computedAt time.Time, sourceVersion uint64) stats.AggregateStats {
	result := stats.Empty(computedAt)
	result.SourceVersion = sourceVersion

	sorted := SortSnapshot(orders)
	result.TotalOrders = len(sorted)

	products := newRanking[string]()
	categories := newRanking[string]()
	daily := make(map[string]kernel.Money)

	for _, o := range sorted {
		result.TotalRevenue = result.TotalRevenue.Add(o.Total())
		result.CountsByStatus[o.Status()]++
		result.CountsByType[o.Type()]++

		day := o.CreatedAt().UTC().Format(stats.DateLayout)
		daily[day] = daily[day].Add(o.Total())

		for _, item := range o.LineItems() {
			products.add(item.ProductID(), item.Name(), 1, kernel.ZeroMoney())

			category := item.Category()
			if category == "" {
				category = UncategorizedLabel
			}
			categories.add(category, category, 0, item.Subtotal())
		}
	}

	if result.TotalOrders > 0 {
		for _, t := range order.AllTypes() {
			result.TypeShares[t] = float64(result.CountsByType[t]) / float64(result.TotalOrders)
		}
		result.AverageOrderValue = result.TotalRevenue.DividedBy(result.TotalOrders)
	}

	result.TopProducts = topProducts(products)
	result.RevenueByCategory = revenueByCategory(categories)
	result.DailyRevenue = lastDays(daily)

	return result
}

// SortSnapshot returns a copy of orders sorted by createdAt, then id.
func SortSnapshot(orders []*order.Order) []*order.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b *order.Order) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
	return sorted
}

type rankEntry struct {
	label  string
	count  int
	amount kernel.Money
}

// ranking accumulates per-key totals while remembering first-seen order.
type ranking[K comparable] struct {
	index   map[K]int
	keys    []K
	entries []rankEntry
}

func newRanking[K comparable]() *ranking[K] {
	return &ranking[K]{index: make(map[K]int)}
}

func (r *ranking[K]) add(key K, label string, count int, amount kernel.Money) {
	i, ok := r.index[key]
	if !ok {
		i = len(r.entries)
		r.index[key] = i
		r.keys = append(r.keys, key)
		r.entries = append(r.entries, rankEntry{label: label, amount: kernel.ZeroMoney()})
	}
	r.entries[i].count += count
	r.entries[i].amount = r.entries[i].amount.Add(amount)
}

func topProducts(r *ranking[string]) []stats.ProductCount {
	ranked := make([]stats.ProductCount, len(r.entries))
	for i, e := range r.entries {
		ranked[i] = stats.ProductCount{ProductID: r.keys[i], Name: e.label, Count: e.count}
	}
	slices.SortStableFunc(ranked, func(a, b stats.ProductCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(ranked) > stats.TopProductsLimit {
		ranked = ranked[:stats.TopProductsLimit]
	}
	return ranked
}

func revenueByCategory(r *ranking[string]) []stats.CategoryRevenue {
	ranked := make([]stats.CategoryRevenue, len(r.entries))
	for i, e := range r.entries {
		ranked[i] = stats.CategoryRevenue{Category: e.label, Revenue: e.amount}
	}
	slices.SortStableFunc(ranked, func(a, b stats.CategoryRevenue) int {
		return b.Revenue.Amount().Cmp(a.Revenue.Amount())
	})
	return ranked
}

func lastDays(daily map[string]kernel.Money) []stats.DailyRevenue {
	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	slices.Sort(dates)
	if len(dates) > stats.DailyRevenueDays {
		dates = dates[len(dates)-stats.DailyRevenueDays:]
	}

	days := make([]stats.DailyRevenue, len(dates))
	for i, date := range dates {
		days[i] = stats.DailyRevenue{Date: date, Revenue: daily[date]}
	}
	return days
}
