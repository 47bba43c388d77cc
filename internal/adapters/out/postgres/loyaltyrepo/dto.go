// Package loyaltyrepo is the PostgreSQL loyalty ledger. Balance changes are
// single conditional statements or upserts, so concurrent requests for the
// same customer serialize on the account row.
package loyaltyrepo

import (
	"time"

	"cafe/internal/core/domain/model/loyalty"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// programRowID is the primary key of the single program row.
const programRowID = 1

type AccountDTO struct {
	CustomerID  string    `gorm:"type:varchar(255);primaryKey"`
	Points      int64     `gorm:"not null;default:0"`
	LastUpdated time.Time `gorm:"not null"`
}

func (AccountDTO) TableName() string {
	return "loyalty_accounts"
}

// AccrualDTO marks an order as credited. The primary key on order_id makes
// order accrual idempotent.
type AccrualDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID string    `gorm:"type:varchar(255);not null;index"`
	Points     int64     `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (AccrualDTO) TableName() string {
	return "loyalty_accruals"
}

type RewardDTO struct {
	PointsThreshold int64  `json:"points_threshold"`
	Name            string `json:"reward_name"`
}

type ProgramDTO struct {
	ID              int             `gorm:"primaryKey;autoIncrement:false"`
	PointsPerDollar decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	Rewards         []RewardDTO     `gorm:"type:jsonb;serializer:json"`
}

func (ProgramDTO) TableName() string {
	return "loyalty_program"
}

func accountToDomain(dto AccountDTO) (*loyalty.Account, error) {
	return loyalty.RestoreAccount(dto.CustomerID, dto.Points, dto.LastUpdated)
}

func programFromDomain(p loyalty.Program) ProgramDTO {
	dto := ProgramDTO{
		ID:              programRowID,
		PointsPerDollar: p.PointsPerDollar(),
		Rewards:         make([]RewardDTO, 0, len(p.Rewards())),
	}
	for _, r := range p.Rewards() {
		dto.Rewards = append(dto.Rewards, RewardDTO{PointsThreshold: r.Threshold(), Name: r.Name()})
	}
	return dto
}

func programToDomain(dto ProgramDTO) (loyalty.Program, error) {
	rewards := make([]loyalty.Reward, 0, len(dto.Rewards))
	for _, r := range dto.Rewards {
		reward, err := loyalty.NewReward(r.PointsThreshold, r.Name)
		if err != nil {
			return loyalty.Program{}, err
		}
		rewards = append(rewards, reward)
	}
	return loyalty.NewProgram(dto.PointsPerDollar, rewards)
}
