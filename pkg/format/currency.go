// Package format renders amounts the way the showcase page displays them.
package format

import (
	"math"

	"github.com/iwvelando/showroom/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale groups digits in lakhs and crores.
var Locale = language.MustParse("en-IN")

var printer = NewPrinter()

// NewPrinter returns a printer that formats numbers for Locale.
func NewPrinter() *message.Printer {
	return message.NewPrinter(Locale)
}

// Rupee returns an amount with the rupee sign and Indian digit grouping
// (e.g., "₹7,95,600" or "-₹1,000").
func Rupee(amount int64) string {
	if amount < 0 {
		return "-" + constants.CurrencySymbol + printer.Sprintf("%d", uint64(-amount))
	}
	return constants.CurrencySymbol + printer.Sprintf("%d", amount)
}

// RupeePaise is Rupee for fractional amounts, keeping two decimals
// (e.g., "₹8,884.88").
func RupeePaise(amount float64) string {
	formatted := printer.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}
