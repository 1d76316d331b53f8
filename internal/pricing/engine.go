package pricing

import (
	"errors"
	"strings"
)

// Money represents a monetary value stored in minor units (paise for INR).
type Money = int64

// minorUnitFactor converts rupees to paise. INR has two decimal subunits.
const minorUnitFactor = 100

// ToMinorUnits converts a whole-rupee amount into the gateway's minor unit.
func ToMinorUnits(rupees int64) Money {
	return Money(rupees) * minorUnitFactor
}

// Cadence is the recurring billing period of a subscription plan.
type Cadence string

const (
	// CadenceMonthly bills every month for a year.
	CadenceMonthly Cadence = "monthly"
	// CadenceYearly bills once per year.
	CadenceYearly Cadence = "yearly"
)

// ErrUnknownCadence is returned for plan identifiers outside the allowed set.
var ErrUnknownCadence = errors.New("pricing: unknown cadence")

// ParseCadence validates a client-supplied plan identifier.
func ParseCadence(planID string) (Cadence, error) {
	switch Cadence(strings.TrimSpace(planID)) {
	case CadenceMonthly:
		return CadenceMonthly, nil
	case CadenceYearly:
		return CadenceYearly, nil
	default:
		return "", ErrUnknownCadence
	}
}

// Cycles returns the number of billing cycles the gateway should collect for
// the cadence: twelve monthly charges, or a single yearly charge.
func (c Cadence) Cycles() int {
	switch c {
	case CadenceMonthly:
		return 12
	case CadenceYearly:
		return 1
	default:
		return 0
	}
}
