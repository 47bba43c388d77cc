package queries

import (
	"context"
	"errors"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/guard"
)

var (
	ErrGetAllCouriersQueryIsNotConstructed = errors.New(
		"GetAllCouriersQuery must be created via NewGetAllCouriersQuery constructor",
	)
)

// GetAllCouriersQuery lists the couriers known to the directory, so the
// dispatch screen can offer them for assignment.
type GetAllCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllCouriersQuery creates a query to retrieve all couriers.
func NewGetAllCouriersQuery() GetAllCouriersQuery {
	return GetAllCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAllCouriersQueryIsNotConstructed if validation fails.
func (q GetAllCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCouriersQueryIsNotConstructed)
}

// GetAllCouriersQueryResponse represents courier information in the read model.
type GetAllCouriersQueryResponse struct {
	ID   kernel.UUID
	Name string
}

type GetAllCouriersQueryHandler struct {
	couriers ports.CourierDirectory
}

func NewGetAllCouriersQueryHandler(couriers ports.CourierDirectory) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{couriers: couriers}
}

// Handle returns couriers in the order the directory lists them.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
) ([]GetAllCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	list, err := h.couriers.List(ctx)
	if err != nil {
		return nil, err
	}

	couriers := make([]GetAllCouriersQueryResponse, 0, len(list))
	for _, c := range list {
		couriers = append(couriers, GetAllCouriersQueryResponse{ID: c.ID(), Name: c.Name()})
	}
	return couriers, nil
}
