package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/showroom/pkg/constants"
)

func TestLoanForm(t *testing.T) {
	v := New()

	tests := []struct {
		name        string
		form        LoanForm
		wantErr     bool
		errContains string
	}{
		{
			name: "Page defaults",
			form: LoanForm{LoanAmount: 1060800, DownPayment: 265200, AnnualRatePercent: 8.5, TenureMonths: 66},
		},
		{
			name: "Slider minimums",
			form: LoanForm{LoanAmount: 100000, DownPayment: 0, AnnualRatePercent: 6, TenureMonths: 12},
		},
		{
			name: "Down payment equals loan amount",
			form: LoanForm{LoanAmount: 500000, DownPayment: 500000, AnnualRatePercent: 15, TenureMonths: 84},
		},
		{
			name:        "Loan amount below range",
			form:        LoanForm{LoanAmount: 99999, AnnualRatePercent: 8.5, TenureMonths: 66},
			wantErr:     true,
			errContains: "loanAmount must be at least 100000",
		},
		{
			name:        "Rate above range",
			form:        LoanForm{LoanAmount: 1060800, AnnualRatePercent: 15.5, TenureMonths: 66},
			wantErr:     true,
			errContains: "annualRatePercent must be at most 15",
		},
		{
			name:        "Tenure below range",
			form:        LoanForm{LoanAmount: 1060800, AnnualRatePercent: 8.5, TenureMonths: 6},
			wantErr:     true,
			errContains: "tenureMonths must be at least 12",
		},
		{
			name:        "Down payment above loan amount",
			form:        LoanForm{LoanAmount: 100000, DownPayment: 1226000, AnnualRatePercent: 8.5, TenureMonths: 66},
			wantErr:     true,
			errContains: "downPayment must not exceed",
		},
		{
			name:        "Multiple violations are all reported",
			form:        LoanForm{LoanAmount: 0, AnnualRatePercent: 0, TenureMonths: 0},
			wantErr:     true,
			errContains: "tenureMonths",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs, err := v.Loan(tt.form)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				if !errors.Is(err, ErrInvalidForm) {
					t.Errorf("expected ErrInvalidForm, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if inputs.Principal != tt.form.LoanAmount-tt.form.DownPayment {
				t.Errorf("Principal = %v, expected %v", inputs.Principal, tt.form.LoanAmount-tt.form.DownPayment)
			}
			if inputs.AnnualRatePercent != tt.form.AnnualRatePercent || inputs.TenureMonths != tt.form.TenureMonths {
				t.Errorf("inputs %+v do not carry form %+v", inputs, tt.form)
			}
		})
	}
}

func TestEventForm(t *testing.T) {
	v := New()

	inputs, err := v.Event(EventForm{Invites: 100, DurationDays: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inputs.Invites != 100 || inputs.DurationDays != 7 {
		t.Errorf("unexpected inputs %+v", inputs)
	}

	invalid := []EventForm{
		{Invites: 49, DurationDays: 7},
		{Invites: 501, DurationDays: 7},
		{Invites: 100, DurationDays: 0},
		{Invites: 100, DurationDays: 31},
	}
	for _, form := range invalid {
		if _, err := v.Event(form); !errors.Is(err, ErrInvalidForm) {
			t.Errorf("Event(%+v) expected ErrInvalidForm, got %v", form, err)
		}
	}
}

func TestRulesFollowConstants(t *testing.T) {
	v := New()

	valid := LoanForm{
		LoanAmount:        constants.DefaultLoanAmount,
		DownPayment:       constants.DefaultDownPayment,
		AnnualRatePercent: constants.DefaultAnnualRatePercent,
		TenureMonths:      constants.DefaultTenureMonths,
	}

	loanTests := []struct {
		name    string
		mutate  func(f *LoanForm)
		wantErr bool
	}{
		{"Loan amount at minimum", func(f *LoanForm) { f.LoanAmount = constants.MinLoanAmount; f.DownPayment = 0 }, false},
		{"Loan amount below minimum", func(f *LoanForm) { f.LoanAmount = constants.MinLoanAmount - 1; f.DownPayment = 0 }, true},
		{"Loan amount at maximum", func(f *LoanForm) { f.LoanAmount = constants.MaxLoanAmount }, false},
		{"Loan amount above maximum", func(f *LoanForm) { f.LoanAmount = constants.MaxLoanAmount + 1 }, true},
		{"Down payment at minimum", func(f *LoanForm) { f.DownPayment = constants.MinDownPayment }, false},
		{"Down payment below minimum", func(f *LoanForm) { f.DownPayment = constants.MinDownPayment - 1 }, true},
		{"Down payment at maximum", func(f *LoanForm) { f.LoanAmount = constants.MaxLoanAmount; f.DownPayment = constants.MaxDownPayment }, false},
		{"Down payment above maximum", func(f *LoanForm) { f.LoanAmount = constants.MaxLoanAmount; f.DownPayment = constants.MaxDownPayment + 1 }, true},
		{"Rate at minimum", func(f *LoanForm) { f.AnnualRatePercent = constants.MinAnnualRatePercent }, false},
		{"Rate below minimum", func(f *LoanForm) { f.AnnualRatePercent = constants.MinAnnualRatePercent - 0.1 }, true},
		{"Rate at maximum", func(f *LoanForm) { f.AnnualRatePercent = constants.MaxAnnualRatePercent }, false},
		{"Rate above maximum", func(f *LoanForm) { f.AnnualRatePercent = constants.MaxAnnualRatePercent + 0.1 }, true},
		{"Tenure at minimum", func(f *LoanForm) { f.TenureMonths = constants.MinTenureMonths }, false},
		{"Tenure below minimum", func(f *LoanForm) { f.TenureMonths = constants.MinTenureMonths - 1 }, true},
		{"Tenure at maximum", func(f *LoanForm) { f.TenureMonths = constants.MaxTenureMonths }, false},
		{"Tenure above maximum", func(f *LoanForm) { f.TenureMonths = constants.MaxTenureMonths + 1 }, true},
	}

	for _, tt := range loanTests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			_, err := v.Loan(form)
			if tt.wantErr != (err != nil) {
				t.Errorf("Loan(%+v) error = %v, wantErr %v", form, err, tt.wantErr)
			}
		})
	}

	eventTests := []struct {
		name    string
		form    EventForm
		wantErr bool
	}{
		{"Invites at minimum", EventForm{Invites: constants.MinInvites, DurationDays: constants.MinEventDays}, false},
		{"Invites below minimum", EventForm{Invites: constants.MinInvites - 1, DurationDays: constants.MinEventDays}, true},
		{"Invites at maximum", EventForm{Invites: constants.MaxInvites, DurationDays: constants.MaxEventDays}, false},
		{"Invites above maximum", EventForm{Invites: constants.MaxInvites + 1, DurationDays: constants.MaxEventDays}, true},
		{"Days below minimum", EventForm{Invites: constants.MinInvites, DurationDays: constants.MinEventDays - 1}, true},
		{"Days above maximum", EventForm{Invites: constants.MaxInvites, DurationDays: constants.MaxEventDays + 1}, true},
	}

	for _, tt := range eventTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Event(tt.form)
			if tt.wantErr != (err != nil) {
				t.Errorf("Event(%+v) error = %v, wantErr %v", tt.form, err, tt.wantErr)
			}
		})
	}
}

func TestRulesCoverEveryField(t *testing.T) {
	if rules := LoanRules(); len(rules) != 4 {
		t.Errorf("expected a rule for each of the 4 LoanForm fields, got %v", rules)
	}
	if rules := EventRules(); len(rules) != 2 {
		t.Errorf("expected a rule for each of the 2 EventForm fields, got %v", rules)
	}
	if rule := LoanRules()["LoanAmount"]; rule != "gte=100000,lte=1326000" {
		t.Errorf("unexpected LoanAmount rule %q", rule)
	}
	if rule := LoanRules()["AnnualRatePercent"]; rule != "gte=6,lte=15" {
		t.Errorf("unexpected AnnualRatePercent rule %q", rule)
	}
}

func TestOutputFormat(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{name: "Valid pretty format", format: constants.OutputFormatPretty},
		{name: "Valid csv format", format: constants.OutputFormatCSV},
		{name: "Invalid format", format: "json", expectErr: true},
		{name: "Empty format", format: "", expectErr: true},
		{name: "Case sensitive", format: "CSV", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.OutputFormat(tt.format)
			if tt.expectErr && err == nil {
				t.Errorf("OutputFormat(%q) expected error but got nil", tt.format)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("OutputFormat(%q) unexpected error: %v", tt.format, err)
			}
		})
	}
}
