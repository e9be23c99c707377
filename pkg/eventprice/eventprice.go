// Package eventprice prices events from their invite count and duration using
// threshold-based multipliers.
package eventprice

import (
	"errors"
	"fmt"
	"sort"

	"github.com/iwvelando/showroom/pkg/constants"
)

// ErrOutOfRange is returned when an input falls outside the supported range.
var ErrOutOfRange = errors.New("event input out of range")

// Tier applies Multiplier to values strictly greater than Above.
type Tier struct {
	Above      int     `json:"above" yaml:"above"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// Schedule describes one pricing formula:
//
//	price = BasePrice + invites * days * inviteMultiplier * durationMultiplier
type Schedule struct {
	Name                      string  `json:"name"`
	BasePrice                 float64 `json:"basePrice"`
	InviteTiers               []Tier  `json:"inviteTiers,omitempty"`
	DefaultInviteMultiplier   float64 `json:"defaultInviteMultiplier"`
	DurationTiers             []Tier  `json:"durationTiers,omitempty"`
	DefaultDurationMultiplier float64 `json:"defaultDurationMultiplier"`
	Round                     bool    `json:"round"`
}

// Tiered returns the canonical schedule with invite and duration tiers.
func Tiered() Schedule {
	return Schedule{
		Name:      constants.PricingTiered,
		BasePrice: constants.DefaultEventBasePrice,
		InviteTiers: []Tier{
			{Above: 300, Multiplier: 15},
			{Above: 150, Multiplier: 12.5},
		},
		DefaultInviteMultiplier: 10,
		DurationTiers: []Tier{
			{Above: 15, Multiplier: 1.2},
			{Above: 7, Multiplier: 1.1},
		},
		DefaultDurationMultiplier: 1,
		Round:                     true,
	}
}

// Flat returns the single-multiplier schedule with no duration tiering.
func Flat() Schedule {
	return Schedule{
		Name:                      constants.PricingFlat,
		BasePrice:                 constants.DefaultEventBasePrice,
		DefaultInviteMultiplier:   12.5,
		DefaultDurationMultiplier: 1,
		Round:                     false,
	}
}

// ByName returns the built-in schedule registered under name.
func ByName(name string) (Schedule, error) {
	switch name {
	case "", constants.PricingTiered:
		return Tiered(), nil
	case constants.PricingFlat:
		return Flat(), nil
	default:
		return Schedule{}, fmt.Errorf("unknown event pricing variant %q, expected %s or %s",
			name, constants.PricingTiered, constants.PricingFlat)
	}
}

// Validate reports configuration mistakes in the schedule.
func (s Schedule) Validate() error {
	if s.BasePrice < 0 {
		return fmt.Errorf("base price %.2f must not be negative", s.BasePrice)
	}
	if s.DefaultInviteMultiplier <= 0 || s.DefaultDurationMultiplier <= 0 {
		return errors.New("default multipliers must be positive")
	}
	for _, tiers := range [][]Tier{s.InviteTiers, s.DurationTiers} {
		seen := make(map[int]struct{}, len(tiers))
		for _, tier := range tiers {
			if tier.Multiplier <= 0 {
				return fmt.Errorf("tier above %d has non-positive multiplier %v", tier.Above, tier.Multiplier)
			}
			if _, dup := seen[tier.Above]; dup {
				return fmt.Errorf("duplicate tier threshold %d", tier.Above)
			}
			seen[tier.Above] = struct{}{}
		}
	}
	return nil
}

// InviteMultiplier returns the multiplier applied for the given invite count.
func (s Schedule) InviteMultiplier(invites int) float64 {
	return multiplierFor(s.InviteTiers, s.DefaultInviteMultiplier, invites)
}

// DurationMultiplier returns the multiplier applied for the given duration.
func (s Schedule) DurationMultiplier(days int) float64 {
	return multiplierFor(s.DurationTiers, s.DefaultDurationMultiplier, days)
}

// multiplierFor picks the tier with the highest threshold below value.
func multiplierFor(tiers []Tier, fallback float64, value int) float64 {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Above > sorted[j].Above })

	for _, tier := range sorted {
		if value > tier.Above {
			return tier.Multiplier
		}
	}
	return fallback
}
