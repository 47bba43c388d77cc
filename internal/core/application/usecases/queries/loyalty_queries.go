package queries

import (
	"context"
	"errors"
	"time"

	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetAccountBalanceQueryIsNotConstructed = errors.New(
		"GetAccountBalanceQuery must be created via NewGetAccountBalanceQuery constructor",
	)
	ErrGetLoyaltyProgramQueryIsNotConstructed = errors.New(
		"GetLoyaltyProgramQuery must be created via NewGetLoyaltyProgramQuery constructor",
	)
)

type RewardView struct {
	PointsThreshold int64
	Name            string
}

// AccountBalanceView is a balance together with the rewards it already reaches.
type AccountBalanceView struct {
	CustomerID      string
	Points          int64
	LastUpdated     time.Time
	EligibleRewards []RewardView
}

type ProgramView struct {
	PointsPerDollar decimal.Decimal
	Rewards         []RewardView
}

type GetAccountBalanceQuery struct {
	customerID string
	guard      guard.ConstructorGuard
}

func NewGetAccountBalanceQuery(customerID string) (GetAccountBalanceQuery, error) {
	id, err := loyalty.NormalizeCustomerID(customerID)
	if err != nil {
		return GetAccountBalanceQuery{}, err
	}
	return GetAccountBalanceQuery{customerID: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAccountBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetAccountBalanceQueryIsNotConstructed)
}

type GetAccountBalanceQueryHandler struct {
	loyalty ports.LoyaltyRepository
}

func NewGetAccountBalanceQueryHandler(repo ports.LoyaltyRepository) GetAccountBalanceQueryHandler {
	return GetAccountBalanceQueryHandler{loyalty: repo}
}

// Handle returns the balance, or an ObjectNotFoundError for a customer that
// never earned points.
func (h GetAccountBalanceQueryHandler) Handle(ctx context.Context, query GetAccountBalanceQuery) (AccountBalanceView, error) {
	if err := query.Validate(); err != nil {
		return AccountBalanceView{}, err
	}

	account, err := h.loyalty.GetAccount(ctx, query.customerID)
	if err != nil {
		return AccountBalanceView{}, err
	}
	program, err := h.loyalty.GetProgram(ctx)
	if err != nil {
		return AccountBalanceView{}, err
	}

	return AccountBalanceView{
		CustomerID:      account.CustomerID(),
		Points:          account.Points(),
		LastUpdated:     account.LastUpdated(),
		EligibleRewards: rewardViews(program.EligibleRewards(account.Points())),
	}, nil
}

type GetLoyaltyProgramQuery struct {
	guard guard.ConstructorGuard
}

func NewGetLoyaltyProgramQuery() GetLoyaltyProgramQuery {
	return GetLoyaltyProgramQuery{guard: guard.NewConstructorGuard()}
}

func (q GetLoyaltyProgramQuery) Validate() error {
	return q.guard.Validate(ErrGetLoyaltyProgramQueryIsNotConstructed)
}

type GetLoyaltyProgramQueryHandler struct {
	loyalty ports.LoyaltyRepository
}

func NewGetLoyaltyProgramQueryHandler(repo ports.LoyaltyRepository) GetLoyaltyProgramQueryHandler {
	return GetLoyaltyProgramQueryHandler{loyalty: repo}
}

func (h GetLoyaltyProgramQueryHandler) Handle(ctx context.Context, query GetLoyaltyProgramQuery) (ProgramView, error) {
	if err := query.Validate(); err != nil {
		return ProgramView{}, err
	}

	program, err := h.loyalty.GetProgram(ctx)
	if err != nil {
		return ProgramView{}, err
	}
	return ProgramView{
		PointsPerDollar: program.PointsPerDollar(),
		Rewards:         rewardViews(program.Rewards()),
	}, nil
}

func rewardViews(rewards []loyalty.Reward) []RewardView {
	views := make([]RewardView, 0, len(rewards))
	for _, r := range rewards {
		views = append(views, RewardView{PointsThreshold: r.Threshold(), Name: r.Name()})
	}
	return views
}
