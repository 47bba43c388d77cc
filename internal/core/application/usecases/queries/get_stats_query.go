package queries

import (
	"errors"

	"cafe/internal/core/domain/model/stats"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/guard"
)

var ErrGetStatsQueryIsNotConstructed = errors.New(
	"GetStatsQuery must be created via NewGetStatsQuery constructor",
)

type GetStatsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetStatsQuery() GetStatsQuery {
	return GetStatsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatsQueryIsNotConstructed)
}

// GetStatsQueryHandler returns the latest fully computed statistics. It never
// triggers a recompute and never returns a partial value.
type GetStatsQueryHandler struct {
	provider ports.StatsProvider
}

func NewGetStatsQueryHandler(provider ports.StatsProvider) GetStatsQueryHandler {
	return GetStatsQueryHandler{provider: provider}
}

func (h GetStatsQueryHandler) Handle(query GetStatsQuery) (stats.AggregateStats, error) {
	if err := query.Validate(); err != nil {
		return stats.AggregateStats{}, err
	}
	return h.provider.Latest(), nil
}
