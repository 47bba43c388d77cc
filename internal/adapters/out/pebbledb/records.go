package pebbledb

import (
	"encoding/json"
	"errors"
	"time"

	"cafe/internal/core/domain/model/loyalty"

	"github.com/shopspring/decimal"
)

const (
	accountPrefix = "account/"
	accrualPrefix = "accrual/"
	programKey    = "program"
)

func accountKey(customerID string) []byte {
	return []byte(accountPrefix + customerID)
}

func accrualKey(orderID string) []byte {
	return []byte(accrualPrefix + orderID)
}

type accountRecord struct {
	CustomerID  string    `json:"customer_id"`
	Points      int64     `json:"points"`
	LastUpdated time.Time `json:"last_updated"`
}

func encodeAccount(a *loyalty.Account) ([]byte, error) {
	return json.Marshal(accountRecord{
		CustomerID:  a.CustomerID(),
		Points:      a.Points(),
		LastUpdated: a.LastUpdated(),
	})
}

func decodeAccount(raw []byte) (*loyalty.Account, error) {
	var rec accountRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return loyalty.RestoreAccount(rec.CustomerID, rec.Points, rec.LastUpdated)
}

type accrualRecord struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Points     int64     `json:"points"`
	CreatedAt  time.Time `json:"created_at"`
}

func encodeAccrual(e loyalty.AccrualEntry) ([]byte, error) {
	return json.Marshal(accrualRecord{
		OrderID:    e.OrderID().String(),
		CustomerID: e.CustomerID(),
		Points:     e.Points(),
		CreatedAt:  e.CreatedAt(),
	})
}

type rewardRecord struct {
	PointsThreshold int64  `json:"points_threshold"`
	Name            string `json:"reward_name"`
}

type programRecord struct {
	PointsPerDollar decimal.Decimal `json:"points_per_dollar"`
	Rewards         []rewardRecord  `json:"rewards"`
}

func encodeProgram(p loyalty.Program) ([]byte, error) {
	rec := programRecord{PointsPerDollar: p.PointsPerDollar()}
	for _, r := range p.Rewards() {
		rec.Rewards = append(rec.Rewards, rewardRecord{PointsThreshold: r.Threshold(), Name: r.Name()})
	}
	return json.Marshal(rec)
}

func decodeProgram(raw []byte) (loyalty.Program, error) {
	var rec programRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return loyalty.Program{}, err
	}

	rewards := make([]loyalty.Reward, 0, len(rec.Rewards))
	var rewardErrs []error
	for _, r := range rec.Rewards {
		reward, err := loyalty.NewReward(r.PointsThreshold, r.Name)
		rewardErrs = append(rewardErrs, err)
		rewards = append(rewards, reward)
	}
	if err := errors.Join(rewardErrs...); err != nil {
		return loyalty.Program{}, err
	}
	return loyalty.NewProgram(rec.PointsPerDollar, rewards)
}
