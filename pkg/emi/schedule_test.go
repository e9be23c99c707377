package emi

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
)

func TestScheduleAgainstReference(t *testing.T) {
	generator := NewScheduleGenerator(zap.NewNop())

	schedule, err := generator.Generate(Inputs{Principal: 100000, AnnualRatePercent: 12, TenureMonths: 12})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	if len(schedule) != 12 {
		t.Fatalf("expected 12 installments, got %d", len(schedule))
	}

	first := schedule[0]
	if first.Month != 1 {
		t.Errorf("expected first month 1, got %d", first.Month)
	}
	if math.Abs(first.Payment-8884.88) > 0.01 {
		t.Errorf("first payment = %.2f, expected 8884.88", first.Payment)
	}
	if math.Abs(first.Interest-1000.00) > 0.01 {
		t.Errorf("first interest = %.2f, expected 1000.00", first.Interest)
	}
	if math.Abs(first.Principal-7884.88) > 0.01 {
		t.Errorf("first principal = %.2f, expected 7884.88", first.Principal)
	}
	if math.Abs(first.RemainingPrincipal-92115.12) > 0.01 {
		t.Errorf("first remaining principal = %.2f, expected 92115.12", first.RemainingPrincipal)
	}

	last := schedule[len(schedule)-1]
	if last.RemainingPrincipal != 0 {
		t.Errorf("expected final balance 0, got %.2f", last.RemainingPrincipal)
	}
	if math.Abs(last.Interest-87.97) > 0.01 {
		t.Errorf("last interest = %.2f, expected 87.97", last.Interest)
	}
}

func TestScheduleTotalsMatchQuote(t *testing.T) {
	in := Inputs{Principal: 795600, AnnualRatePercent: 8.5, TenureMonths: 66}

	schedule, err := Schedule(in)
	if err != nil {
		t.Fatalf("Schedule() unexpected error: %v", err)
	}
	quote, err := Quote(in)
	if err != nil {
		t.Fatalf("Quote() unexpected error: %v", err)
	}

	var principalPaid, interestPaid float64
	for _, installment := range schedule {
		principalPaid += installment.Principal
		interestPaid += installment.Interest
		if installment.RemainingPrincipal < 0 {
			t.Fatalf("month %d has negative balance %.2f", installment.Month, installment.RemainingPrincipal)
		}
	}

	if math.Abs(principalPaid-in.Principal) > 1 {
		t.Errorf("principal paid %.2f, expected %.2f", principalPaid, in.Principal)
	}
	// The quote rounds the installment up or down once per month.
	if math.Abs(interestPaid-float64(quote.TotalInterest)) > float64(in.TenureMonths) {
		t.Errorf("interest paid %.2f too far from quoted %d", interestPaid, quote.TotalInterest)
	}
}

func TestScheduleZeroRate(t *testing.T) {
	schedule, err := Schedule(Inputs{Principal: 1200, AnnualRatePercent: 0, TenureMonths: 12})
	if err != nil {
		t.Fatalf("Schedule() unexpected error: %v", err)
	}
	if len(schedule) != 12 {
		t.Fatalf("expected 12 installments, got %d", len(schedule))
	}
	for _, installment := range schedule {
		if installment.Interest != 0 {
			t.Errorf("month %d interest = %.2f, expected 0", installment.Month, installment.Interest)
		}
		if installment.Payment != 100 {
			t.Errorf("month %d payment = %.2f, expected 100", installment.Month, installment.Payment)
		}
	}
	if schedule[11].RemainingPrincipal != 0 {
		t.Errorf("expected final balance 0, got %.2f", schedule[11].RemainingPrincipal)
	}
}

func TestScheduleInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
	}{
		{"Negative principal", Inputs{Principal: -1, AnnualRatePercent: 8.5, TenureMonths: 12}},
		{"Infinite principal at zero rate", Inputs{Principal: math.Inf(1), AnnualRatePercent: 0, TenureMonths: 3}},
		{"Principal beyond int64", Inputs{Principal: 1e30, AnnualRatePercent: 8.5, TenureMonths: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := Schedule(tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if schedule != nil {
				t.Errorf("expected no schedule, got %d rows", len(schedule))
			}
		})
	}
}
