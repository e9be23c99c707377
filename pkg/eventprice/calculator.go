package eventprice

import (
	"fmt"

	"github.com/iwvelando/showroom/pkg/constants"
	"github.com/shopspring/decimal"
)

// Inputs holds the parameters of a single price calculation.
type Inputs struct {
	Invites      int `json:"invites"`
	DurationDays int `json:"durationDays"`
}

// Result holds the computed price and the multipliers that produced it.
// Exact keeps the fractional amount for schedules that do not round.
type Result struct {
	Price              int64           `json:"price"`
	Exact              decimal.Decimal `json:"exact"`
	InviteMultiplier   float64         `json:"inviteMultiplier"`
	DurationMultiplier float64         `json:"durationMultiplier"`
}

// Calculator computes event prices for one schedule.
type Calculator struct {
	schedule Schedule
}

// NewCalculator returns a calculator for schedule after validating it.
func NewCalculator(schedule Schedule) (*Calculator, error) {
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %q pricing schedule: %w", schedule.Name, err)
	}
	return &Calculator{schedule: schedule}, nil
}

// Schedule returns the schedule the calculator prices with.
func (c *Calculator) Schedule() Schedule {
	return c.schedule
}

// Compute prices in. Arithmetic is done in decimal so that threshold
// multipliers such as 1.1 do not introduce binary rounding error before the
// final rounding step.
func (c *Calculator) Compute(in Inputs) (Result, error) {
	if in.Invites < constants.MinInvites || in.Invites > constants.MaxInvites {
		return Result{}, fmt.Errorf("%w: invites %d not in [%d, %d]",
			ErrOutOfRange, in.Invites, constants.MinInvites, constants.MaxInvites)
	}
	if in.DurationDays < constants.MinEventDays || in.DurationDays > constants.MaxEventDays {
		return Result{}, fmt.Errorf("%w: duration %d days not in [%d, %d]",
			ErrOutOfRange, in.DurationDays, constants.MinEventDays, constants.MaxEventDays)
	}

	inviteMultiplier := c.schedule.InviteMultiplier(in.Invites)
	durationMultiplier := c.schedule.DurationMultiplier(in.DurationDays)

	exact := decimal.NewFromFloat(c.schedule.BasePrice).Add(
		decimal.NewFromInt(int64(in.Invites)).
			Mul(decimal.NewFromInt(int64(in.DurationDays))).
			Mul(decimal.NewFromFloat(inviteMultiplier)).
			Mul(decimal.NewFromFloat(durationMultiplier)),
	)

	rounded := exact.Round(0)
	if c.schedule.Round {
		exact = rounded
	}

	return Result{
		Price:              rounded.IntPart(),
		Exact:              exact,
		InviteMultiplier:   inviteMultiplier,
		DurationMultiplier: durationMultiplier,
	}, nil
}

// ComputePrice prices an event with the canonical tiered schedule.
func ComputePrice(invites, durationDays int) (int64, error) {
	calculator := &Calculator{schedule: Tiered()}
	result, err := calculator.Compute(Inputs{Invites: invites, DurationDays: durationDays})
	if err != nil {
		return 0, err
	}
	return result.Price, nil
}
