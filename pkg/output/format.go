// Package output provides utilities for formatting and displaying calculator quotes.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/showroom/pkg/constants"
	"github.com/iwvelando/showroom/pkg/emi"
	"github.com/iwvelando/showroom/pkg/eventprice"
	"github.com/iwvelando/showroom/pkg/format"
)

const rupee = constants.CurrencySymbol

// Report gathers one loan quote and one event quote for display.
type Report struct {
	Loan       emi.Inputs
	LoanResult emi.Result
	Schedule   []emi.Installment

	Event       eventprice.Inputs
	EventResult eventprice.Result
	Pricing     string
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report Report) error {
	p := format.NewPrinter()

	lines := []struct {
		format string
		args   []interface{}
	}{
		{"--- EMI ---\n", nil},
		{"Principal      | "+rupee+"%d\n", []interface{}{report.LoanResult.Principal}},
		{"Interest rate  | %.2f%%\n", []interface{}{report.Loan.AnnualRatePercent}},
		{"Tenure         | %d months\n", []interface{}{report.Loan.TenureMonths}},
		{"Monthly EMI    | "+rupee+"%d\n", []interface{}{report.LoanResult.MonthlyPayment}},
		{"Total interest | "+rupee+"%d\n", []interface{}{report.LoanResult.TotalInterest}},
		{"Total payment  | "+rupee+"%d\n", []interface{}{report.LoanResult.TotalPayment}},
	}
	for _, line := range lines {
		if _, err := p.Fprintf(w, line.format, line.args...); err != nil {
			return err
		}
	}

	if len(report.Schedule) > 0 {
		if _, err := p.Fprintf(w, "\nMonth | Payment | Principal | Interest | Balance\n"); err != nil {
			return err
		}
		if _, err := p.Fprintf(w, "_____ | _______ | _________ | ________ | _______\n"); err != nil {
			return err
		}
		for _, installment := range report.Schedule {
			_, err := p.Fprintf(w, "%5d | "+rupee+"%.2f | "+rupee+"%.2f | "+rupee+"%.2f | "+rupee+"%.2f\n",
				installment.Month,
				installment.Payment,
				installment.Principal,
				installment.Interest,
				installment.RemainingPrincipal,
			)
			if err != nil {
				return err
			}
		}
	}

	_, err := p.Fprintf(w, "\n--- Event price (%s) ---\nInvites        | %d\nDuration       | %d days\nMultipliers    | %v x %v\nPrice          | "+rupee+"%d\n",
		report.Pricing,
		report.Event.Invites,
		report.Event.DurationDays,
		report.EventResult.InviteMultiplier,
		report.EventResult.DurationMultiplier,
		report.EventResult.Price,
	)
	return err
}

// CsvFormat writes the report in comma-separated value format.
func CsvFormat(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)

	records := [][]string{
		{"section", "field", "value"},
		{"emi", "principal", strconv.FormatInt(report.LoanResult.Principal, 10)},
		{"emi", "annualRatePercent", strconv.FormatFloat(report.Loan.AnnualRatePercent, 'f', -1, 64)},
		{"emi", "tenureMonths", strconv.Itoa(report.Loan.TenureMonths)},
		{"emi", "monthlyPayment", strconv.FormatInt(report.LoanResult.MonthlyPayment, 10)},
		{"emi", "totalInterest", strconv.FormatInt(report.LoanResult.TotalInterest, 10)},
		{"emi", "totalPayment", strconv.FormatInt(report.LoanResult.TotalPayment, 10)},
		{"event", "pricing", report.Pricing},
		{"event", "invites", strconv.Itoa(report.Event.Invites)},
		{"event", "durationDays", strconv.Itoa(report.Event.DurationDays)},
		{"event", "price", strconv.FormatInt(report.EventResult.Price, 10)},
		{"event", "exact", report.EventResult.Exact.String()},
	}

	for _, installment := range report.Schedule {
		records = append(records, []string{
			"schedule",
			strconv.Itoa(installment.Month),
			fmt.Sprintf("%.2f;%.2f;%.2f;%.2f",
				installment.Payment, installment.Principal, installment.Interest, installment.RemainingPrincipal),
		})
	}

	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv report: %w", err)
	}
	return nil
}
