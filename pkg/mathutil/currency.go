// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/showroom/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundToUnit rounds a value to the nearest whole currency unit, half away
// from zero.
func RoundToUnit(val float64) int64 {
	return int64(math.Round(val))
}

// FitsInt64 reports whether val is finite and rounds to a value an int64 can hold.
func FitsInt64(val float64) bool {
	if !IsFinite(val) {
		return false
	}
	rounded := math.Round(val)
	return rounded >= math.MinInt64 && rounded < math.MaxInt64
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// MonthlyRate converts an annual percentage rate to a periodic monthly rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.MonthsPerYear / constants.PercentageMultiplier
}
