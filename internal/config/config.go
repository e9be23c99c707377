// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/showroom/pkg/constants"
	"github.com/iwvelando/showroom/pkg/eventprice"
	"github.com/iwvelando/showroom/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override scalar
// configuration keys, e.g. SHOWROOM_LOAN_ANNUALRATEPERCENT or
// SHOWROOM_EVENTPRICING_BASEPRICE. Tier lists are only read from files.
const EnvPrefix = "SHOWROOM"

// envOnlyKeys have no default, so viper only sees their environment
// variables once they are bound.
var envOnlyKeys = []string{
	"eventPricing.basePrice",
	"eventPricing.defaultInviteMultiplier",
	"eventPricing.defaultDurationMultiplier",
	"eventPricing.round",
	"logging.level",
	"logging.format",
	"logging.outputFile",
}

// Configuration holds all configuration for showroom.
type Configuration struct {
	Loan         LoanDefaults  `yaml:"loan"`
	Event        EventDefaults `yaml:"event"`
	EventPricing EventPricing  `yaml:"eventPricing"`
	Vehicle      Vehicle       `yaml:"vehicle"`
	Logging      LoggingConfig `yaml:"logging,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoanDefaults holds the initial EMI slider positions.
type LoanDefaults struct {
	LoanAmount        float64 `yaml:"loanAmount" json:"loanAmount"`
	DownPayment       float64 `yaml:"downPayment" json:"downPayment"`
	AnnualRatePercent float64 `yaml:"annualRatePercent" json:"annualRatePercent"`
	TenureMonths      int     `yaml:"tenureMonths" json:"tenureMonths"`
}

// EventDefaults holds the initial event slider positions.
type EventDefaults struct {
	Invites      int `yaml:"invites" json:"invites"`
	DurationDays int `yaml:"durationDays" json:"durationDays"`
}

// EventPricing selects a built-in pricing variant and optionally overrides
// parts of it.
type EventPricing struct {
	Variant                   string            `yaml:"variant"` // tiered, flat
	BasePrice                 float64           `yaml:"basePrice,omitempty"`
	InviteTiers               []eventprice.Tier `yaml:"inviteTiers,omitempty"`
	DefaultInviteMultiplier   float64           `yaml:"defaultInviteMultiplier,omitempty"`
	DurationTiers             []eventprice.Tier `yaml:"durationTiers,omitempty"`
	DefaultDurationMultiplier float64           `yaml:"defaultDurationMultiplier,omitempty"`
	Round                     *bool             `yaml:"round,omitempty"`
}

// Vehicle holds the specification shown alongside the calculators.
type Vehicle struct {
	Model     string   `yaml:"model" json:"model"`
	Variant   string   `yaml:"variant" json:"variant"`
	Year      int      `yaml:"year" json:"year"`
	Mileage   string   `yaml:"mileage" json:"mileage"`
	ListPrice int64    `yaml:"listPrice" json:"listPrice"`
	Condition string   `yaml:"condition" json:"condition"`
	Tyres     Tyres    `yaml:"tyres" json:"tyres"`
	Features  []string `yaml:"features" json:"features"`
}

// Tyres records remaining tread per position.
type Tyres struct {
	Front string `yaml:"front" json:"front"`
	Rear  string `yaml:"rear" json:"rear"`
	Spare string `yaml:"spare" json:"spare"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// Default returns the configuration used when no file is supplied. Environment
// overrides still apply.
func Default() (*Configuration, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		_ = v.BindEnv(key)
	}
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("loan.loanAmount", constants.DefaultLoanAmount)
	v.SetDefault("loan.downPayment", constants.DefaultDownPayment)
	v.SetDefault("loan.annualRatePercent", constants.DefaultAnnualRatePercent)
	v.SetDefault("loan.tenureMonths", constants.DefaultTenureMonths)

	v.SetDefault("event.invites", constants.DefaultInvites)
	v.SetDefault("event.durationDays", constants.DefaultDurationDays)

	v.SetDefault("eventPricing.variant", constants.PricingTiered)

	v.SetDefault("vehicle.model", "BMW X5 M Sport")
	v.SetDefault("vehicle.variant", "xDrive40i M Sport")
	v.SetDefault("vehicle.year", 2023)
	v.SetDefault("vehicle.mileage", "12.5 kmpl")
	v.SetDefault("vehicle.listPrice", 7550000)
	v.SetDefault("vehicle.condition", "Assured+ with 3-year warranty")
	v.SetDefault("vehicle.tyres.front", "L-95% R-95%")
	v.SetDefault("vehicle.tyres.rear", "L-95% R-95%")
	v.SetDefault("vehicle.tyres.spare", "100%")
	v.SetDefault("vehicle.features", []string{"Panoramic Sunroof", "Heated Seats", "Navigation", "Premium Audio"})

	v.SetDefault("output.format", constants.OutputFormatPretty)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// EventSchedule builds the pricing schedule described by the configuration.
func (c *Configuration) EventSchedule() (eventprice.Schedule, error) {
	schedule, err := eventprice.ByName(c.EventPricing.Variant)
	if err != nil {
		return eventprice.Schedule{}, err
	}

	pricing := c.EventPricing
	if pricing.BasePrice > 0 {
		schedule.BasePrice = pricing.BasePrice
	}
	if pricing.InviteTiers != nil {
		schedule.InviteTiers = pricing.InviteTiers
	}
	if pricing.DefaultInviteMultiplier > 0 {
		schedule.DefaultInviteMultiplier = pricing.DefaultInviteMultiplier
	}
	if pricing.DurationTiers != nil {
		schedule.DurationTiers = pricing.DurationTiers
	}
	if pricing.DefaultDurationMultiplier > 0 {
		schedule.DefaultDurationMultiplier = pricing.DefaultDurationMultiplier
	}
	if pricing.Round != nil {
		schedule.Round = *pricing.Round
	}

	if err := schedule.Validate(); err != nil {
		return eventprice.Schedule{}, fmt.Errorf("invalid event pricing: %w", err)
	}
	return schedule, nil
}

// LoanForm returns the configured EMI slider defaults as a form.
func (c *Configuration) LoanForm() validation.LoanForm {
	return validation.LoanForm{
		LoanAmount:        c.Loan.LoanAmount,
		DownPayment:       c.Loan.DownPayment,
		AnnualRatePercent: c.Loan.AnnualRatePercent,
		TenureMonths:      c.Loan.TenureMonths,
	}
}

// EventForm returns the configured event slider defaults as a form.
func (c *Configuration) EventForm() validation.EventForm {
	return validation.EventForm{
		Invites:      c.Event.Invites,
		DurationDays: c.Event.DurationDays,
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	v := validation.New()

	if _, err := v.Loan(c.LoanForm()); err != nil {
		warnings = append(warnings, fmt.Sprintf("loan defaults are outside the calculator sliders: %v", err))
	}
	if _, err := v.Event(c.EventForm()); err != nil {
		warnings = append(warnings, fmt.Sprintf("event defaults are outside the calculator sliders: %v", err))
	}
	if _, err := c.EventSchedule(); err != nil {
		warnings = append(warnings, err.Error())
	}
	if c.Vehicle.Model == "" {
		warnings = append(warnings, "vehicle model is empty")
	}

	return warnings
}
