// Package validation checks user-supplied calculator forms and options.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/showroom/pkg/constants"
	"github.com/iwvelando/showroom/pkg/emi"
	"github.com/iwvelando/showroom/pkg/eventprice"
)

// ErrInvalidForm is returned when a form value falls outside its slider range.
var ErrInvalidForm = errors.New("invalid form")

// LoanForm mirrors the EMI calculator sliders.
type LoanForm struct {
	LoanAmount        float64 `json:"loanAmount"`
	DownPayment       float64 `json:"downPayment"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TenureMonths      int     `json:"tenureMonths"`
}

// EventForm mirrors the event price calculator sliders.
type EventForm struct {
	Invites      int `json:"invites"`
	DurationDays int `json:"durationDays"`
}

// LoanRules returns the validator rules for LoanForm, keyed by field name.
func LoanRules() map[string]string {
	return map[string]string{
		"LoanAmount":        between(constants.MinLoanAmount, constants.MaxLoanAmount),
		"DownPayment":       between(constants.MinDownPayment, constants.MaxDownPayment) + ",ltefield=LoanAmount",
		"AnnualRatePercent": between(constants.MinAnnualRatePercent, constants.MaxAnnualRatePercent),
		"TenureMonths":      between(constants.MinTenureMonths, constants.MaxTenureMonths),
	}
}

// EventRules returns the validator rules for EventForm, keyed by field name.
func EventRules() map[string]string {
	return map[string]string{
		"Invites":      between(constants.MinInvites, constants.MaxInvites),
		"DurationDays": between(constants.MinEventDays, constants.MaxEventDays),
	}
}

func between(lo, hi float64) string {
	return "gte=" + strconv.FormatFloat(lo, 'f', -1, 64) + ",lte=" + strconv.FormatFloat(hi, 'f', -1, 64)
}

var outputFormatRule = fmt.Sprintf("oneof=%s %s", constants.OutputFormatPretty, constants.OutputFormatCSV)

// Validator checks forms and converts them to calculator inputs.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that reports fields by their JSON names.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterStructValidationMapRules(LoanRules(), LoanForm{})
	validate.RegisterStructValidationMapRules(EventRules(), EventForm{})
	return &Validator{validate: validate}
}

// OutputFormat checks if the output format is one of the supported formats.
func (v *Validator) OutputFormat(format string) error {
	if err := v.validate.Var(format, outputFormatRule); err != nil {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// Loan validates form and returns the EMI inputs it describes.
func (v *Validator) Loan(form LoanForm) (emi.Inputs, error) {
	if err := v.check(form); err != nil {
		return emi.Inputs{}, err
	}

	principal, err := emi.Financed(form.LoanAmount, form.DownPayment)
	if err != nil {
		return emi.Inputs{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	return emi.Inputs{
		Principal:         principal,
		AnnualRatePercent: form.AnnualRatePercent,
		TenureMonths:      form.TenureMonths,
	}, nil
}

// Event validates form and returns the pricing inputs it describes.
func (v *Validator) Event(form EventForm) (eventprice.Inputs, error) {
	if err := v.check(form); err != nil {
		return eventprice.Inputs{}, err
	}
	return eventprice.Inputs{Invites: form.Invites, DurationDays: form.DurationDays}, nil
}

func (v *Validator) check(form interface{}) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
