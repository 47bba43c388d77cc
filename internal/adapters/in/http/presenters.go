package http

import (
	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/core/domain/model/stats"
	"cafe/internal/api/servers"
)

func toOrder(view queries.OrderView) servers.Order {
	out := servers.Order{
		Id:           view.ID.Bytes(),
		CustomerName: view.CustomerName,
		Type:         view.Type.String(),
		Status:       view.Status.String(),
		LineItems:    make([]servers.LineItem, 0, len(view.LineItems)),
		Total:        view.Total.String(),
		CreatedAt:    view.CreatedAt,
		Version:      view.Version,
	}
	for _, item := range view.LineItems {
		out.LineItems = append(out.LineItems, servers.LineItem{
			ProductId: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal.String(),
		})
	}
	if view.DeliveryLocation != nil {
		out.DeliveryLocation = &servers.Location{
			Address: view.DeliveryLocation.Address,
			City:    view.DeliveryLocation.City,
		}
	}
	if view.CourierID != nil {
		id := view.CourierID.Bytes()
		out.CourierId = &id
		name := view.CourierName
		out.CourierName = &name
	}
	return out
}

func toOrders(views []queries.OrderView) []servers.Order {
	out := make([]servers.Order, 0, len(views))
	for _, view := range views {
		out = append(out, toOrder(view))
	}
	return out
}

func toStats(s stats.AggregateStats) servers.Stats {
	out := servers.Stats{
		TotalOrders:       s.TotalOrders,
		TotalRevenue:      s.TotalRevenue.String(),
		CountsByStatus:    make(map[string]int, len(s.CountsByStatus)),
		CountsByType:      make(map[string]int, len(s.CountsByType)),
		TypeShares:        make(map[string]float64, len(s.TypeShares)),
		AverageOrderValue: s.AverageOrderValue.String(),
		TopProducts:       make([]servers.ProductCount, 0, len(s.TopProducts)),
		RevenueByCategory: make([]servers.CategoryRevenue, 0, len(s.RevenueByCategory)),
		DailyRevenue:      make([]servers.DailyRevenue, 0, len(s.DailyRevenue)),
		ComputedAt:        s.ComputedAt,
		SourceVersion:     s.SourceVersion,
	}
	for status, n := range s.CountsByStatus {
		out.CountsByStatus[status.String()] = n
	}
	for t, n := range s.CountsByType {
		out.CountsByType[t.String()] = n
	}
	for t, share := range s.TypeShares {
		out.TypeShares[t.String()] = share
	}
	for _, p := range s.TopProducts {
		out.TopProducts = append(out.TopProducts, servers.ProductCount{ProductId: p.ProductID, Name: p.Name, Count: p.Count})
	}
	for _, c := range s.RevenueByCategory {
		out.RevenueByCategory = append(out.RevenueByCategory, servers.CategoryRevenue{Category: c.Category, Revenue: c.Revenue.String()})
	}
	for _, d := range s.DailyRevenue {
		out.DailyRevenue = append(out.DailyRevenue, servers.DailyRevenue{Date: d.Date, Revenue: d.Revenue.String()})
	}
	return out
}

func toAccount(a *loyalty.Account) servers.Account {
	return servers.Account{
		CustomerId:  a.CustomerID(),
		Points:      a.Points(),
		LastUpdated: a.LastUpdated(),
	}
}

func toAccountBalance(view queries.AccountBalanceView) servers.Account {
	return servers.Account{
		CustomerId:      view.CustomerID,
		Points:          view.Points,
		LastUpdated:     view.LastUpdated,
		EligibleRewards: toRewards(view.EligibleRewards),
	}
}

func toAccrualResult(result commands.AccrualResult) servers.AccrualResult {
	return servers.AccrualResult{
		Account: toAccount(result.Account),
		Points:  result.Points,
		Applied: result.Applied,
	}
}

func toProgram(view queries.ProgramView) servers.Program {
	return servers.Program{
		PointsPerDollar: view.PointsPerDollar.String(),
		Rewards:         toRewards(view.Rewards),
	}
}

func toRewards(views []queries.RewardView) []servers.Reward {
	out := make([]servers.Reward, 0, len(views))
	for _, r := range views {
		out = append(out, servers.Reward{PointsThreshold: r.PointsThreshold, Name: r.Name})
	}
	return out
}
