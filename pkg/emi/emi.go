// Package emi computes equated monthly installments for amortizing loans.
package emi

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/showroom/pkg/mathutil"
)

// ErrInvalidInput is returned for loan parameters the amortization formula
// cannot be evaluated on.
var ErrInvalidInput = errors.New("invalid loan input")

// Inputs holds the parameters of a single EMI calculation.
type Inputs struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TenureMonths      int     `json:"tenureMonths"`
}

// Result holds the rounded installment and the totals derived from it.
type Result struct {
	Principal      int64 `json:"principal"`
	MonthlyPayment int64 `json:"monthlyPayment"`
	TotalInterest  int64 `json:"totalInterest"`
	TotalPayment   int64 `json:"totalPayment"`
}

// ComputeEMI returns the monthly installment for a reducing-balance loan,
// rounded to the nearest whole currency unit. A zero rate amortizes linearly.
func ComputeEMI(principal, annualRatePercent float64, tenureMonths int) (int64, error) {
	payment, err := monthlyPayment(principal, annualRatePercent, tenureMonths)
	if err != nil {
		return 0, err
	}
	return mathutil.RoundToUnit(payment), nil
}

// ComputeTotalInterest returns the interest paid over the tenure for a given
// installment. The result is negative when the installment cannot cover the
// principal; it is not clamped.
func ComputeTotalInterest(principal float64, monthlyPayment int64, tenureMonths int) int64 {
	return monthlyPayment*int64(tenureMonths) - mathutil.RoundToUnit(principal)
}

// Financed returns the principal left to finance after the down payment.
func Financed(loanAmount, downPayment float64) (float64, error) {
	if downPayment < 0 {
		return 0, fmt.Errorf("%w: down payment %.2f is negative", ErrInvalidInput, downPayment)
	}
	if downPayment > loanAmount {
		return 0, fmt.Errorf("%w: down payment %.2f exceeds loan amount %.2f", ErrInvalidInput, downPayment, loanAmount)
	}
	return loanAmount - downPayment, nil
}

// Quote computes the installment for in together with the derived totals.
func Quote(in Inputs) (Result, error) {
	payment, err := ComputeEMI(in.Principal, in.AnnualRatePercent, in.TenureMonths)
	if err != nil {
		return Result{}, err
	}
	if payment > math.MaxInt64/int64(in.TenureMonths) {
		return Result{}, fmt.Errorf("%w: total of %d installments of %d overflows", ErrInvalidInput, in.TenureMonths, payment)
	}

	return Result{
		Principal:      mathutil.RoundToUnit(in.Principal),
		MonthlyPayment: payment,
		TotalInterest:  ComputeTotalInterest(in.Principal, payment, in.TenureMonths),
		TotalPayment:   payment * int64(in.TenureMonths),
	}, nil
}

// monthlyPayment evaluates the standard amortization formula without rounding.
func monthlyPayment(principal, annualRatePercent float64, tenureMonths int) (float64, error) {
	if math.IsNaN(principal) || principal < 0 {
		return 0, fmt.Errorf("%w: principal %v must be zero or positive", ErrInvalidInput, principal)
	}
	if !mathutil.FitsInt64(principal) {
		return 0, fmt.Errorf("%w: principal %v is too large", ErrInvalidInput, principal)
	}
	if tenureMonths <= 0 {
		return 0, fmt.Errorf("%w: tenure %d months must be positive", ErrInvalidInput, tenureMonths)
	}
	if math.IsNaN(annualRatePercent) || annualRatePercent < 0 {
		return 0, fmt.Errorf("%w: annual rate %v%% must be zero or positive", ErrInvalidInput, annualRatePercent)
	}

	var payment float64
	if annualRatePercent == 0 {
		payment = principal / float64(tenureMonths)
	} else {
		periodicRate := mathutil.MonthlyRate(annualRatePercent)
		power := math.Pow(1.00+periodicRate, float64(tenureMonths))
		payment = principal * periodicRate * power / (power - 1.00)
	}
	if !mathutil.FitsInt64(payment) {
		return 0, fmt.Errorf("%w: installment for principal %v at %v%% over %d months is out of range",
			ErrInvalidInput, principal, annualRatePercent, tenureMonths)
	}
	return payment, nil
}
