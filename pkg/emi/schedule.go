package emi

import (
	"github.com/iwvelando/showroom/pkg/mathutil"
	"go.uber.org/zap"
)

// Installment holds the split of one monthly payment.
type Installment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// ScheduleGenerator produces month-by-month amortization breakups.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Schedule generates the breakup for in without logging.
func Schedule(in Inputs) ([]Installment, error) {
	return NewScheduleGenerator(nil).Generate(in)
}

// Generate creates the complete amortization schedule for a loan. Amounts are
// rounded to two decimals for display while the running balance is carried at
// full precision; the final installment clears whatever balance remains.
func (g *ScheduleGenerator) Generate(in Inputs) ([]Installment, error) {
	payment, err := monthlyPayment(in.Principal, in.AnnualRatePercent, in.TenureMonths)
	if err != nil {
		return nil, err
	}

	rate := mathutil.MonthlyRate(in.AnnualRatePercent)
	schedule := make([]Installment, 0, in.TenureMonths)
	balance := in.Principal

	for month := 1; month <= in.TenureMonths; month++ {
		interest := balance * rate
		principalPart := payment - interest
		current := payment

		if month == in.TenureMonths || principalPart >= balance {
			// Absorb floating-point drift in the last payment.
			principalPart = balance
			current = balance + interest
		}
		balance -= principalPart

		schedule = append(schedule, Installment{
			Month:              month,
			Payment:            mathutil.Round(current),
			Principal:          mathutil.Round(principalPart),
			Interest:           mathutil.Round(interest),
			RemainingPrincipal: mathutil.Round(balance),
		})

		if mathutil.IsZero(balance) && month < in.TenureMonths {
			g.logger.Debug("loan cleared before end of tenure",
				zap.String("op", "emi.Generate"),
				zap.Int("month", month),
				zap.Int("tenure", in.TenureMonths),
			)
			break
		}
	}

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "emi.Generate"),
		zap.Float64("principal", in.Principal),
		zap.Float64("rate", in.AnnualRatePercent),
		zap.Int("installments", len(schedule)),
	)

	return schedule, nil
}
