package loyalty

import (
	"errors"
	"fmt"
	"strings"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrProgramIsNotConstructed is returned when a Program was not created through NewProgram.
var ErrProgramIsNotConstructed = errors.New("Program must be created via NewProgram constructor")

// Reward is unlocked once a balance reaches its threshold.
type Reward struct {
	threshold int64
	name      string
}

// NewReward requires a positive threshold and a name.
func NewReward(threshold int64, name string) (Reward, error) {
	name = strings.TrimSpace(name)
	var thresholdErr, nameErr error
	if threshold < 1 {
		thresholdErr = errs.NewValueIsInvalidErrorWithCause("pointsThreshold", fmt.Errorf("%d is not greater than 0", threshold))
	}
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("rewardName")
	}
	if err := errors.Join(thresholdErr, nameErr); err != nil {
		return Reward{}, err
	}
	return Reward{threshold: threshold, name: name}, nil
}

func (r Reward) Threshold() int64 {
	return r.threshold
}

func (r Reward) Name() string {
	return r.name
}

// Program is the singleton loyalty configuration. It is replaced wholesale.
type Program struct {
	pointsPerDollar decimal.Decimal
	rewards         []Reward
	guard           guard.ConstructorGuard
}

// NewProgram validates the conversion rate and rewards.
//
// Parameters:
//   - pointsPerDollar: points granted per unit of currency spent, not negative
//   - rewards: rewards in display order
//
// Example:
//
//	coffee, _ := loyalty.NewReward(100, "Free coffee")
//	program, err := loyalty.NewProgram(decimal.NewFromInt(1), []loyalty.Reward{coffee})
func NewProgram(pointsPerDollar decimal.Decimal, rewards []Reward) (Program, error) {
	if pointsPerDollar.IsNegative() {
		return Program{}, errs.NewValueIsInvalidErrorWithCause(
			"pointsPerDollar", fmt.Errorf("%s is negative", pointsPerDollar.String()))
	}
	for i, r := range rewards {
		if r.threshold < 1 || r.name == "" {
			return Program{}, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("rewards[%d]", i), errors.New("reward must be created via NewReward"))
		}
	}
	copied := make([]Reward, len(rewards))
	copy(copied, rewards)
	return Program{
		pointsPerDollar: pointsPerDollar,
		rewards:         copied,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// DefaultProgram grants one point per unit of currency and offers no rewards.
// It applies until an admin saves a program.
func DefaultProgram() Program {
	return Program{
		pointsPerDollar: decimal.NewFromInt(1),
		rewards:         []Reward{},
		guard:           guard.NewConstructorGuard(),
	}
}

func (p Program) PointsPerDollar() decimal.Decimal {
	return p.pointsPerDollar
}

// Rewards returns a copy of the configured rewards.
func (p Program) Rewards() []Reward {
	rewards := make([]Reward, len(p.rewards))
	copy(rewards, p.rewards)
	return rewards
}

func (p Program) Validate() error {
	return p.guard.Validate(ErrProgramIsNotConstructed)
}

// PointsFor converts an order total into points, rounding down.
func (p Program) PointsFor(total kernel.Money) int64 {
	return total.Amount().Mul(p.pointsPerDollar).Floor().IntPart()
}

// EligibleRewards lists the rewards whose threshold the balance reaches, in
// program order.
func (p Program) EligibleRewards(balance int64) []Reward {
	eligible := make([]Reward, 0, len(p.rewards))
	for _, r := range p.rewards {
		if balance >= r.threshold {
			eligible = append(eligible, r)
		}
	}
	return eligible
}
