// Package salescalc implements the sales distribution engine: tax and
// rounding normalization, distribution policy resolution, item/receipt
// classification, money splitting, commission resolution and promotion
// threshold evaluation. Everything in this package is pure computation;
// repositories and services own all I/O.
package salescalc

import (
	"cast_manager/internal/models"
)

// ExcludeTax strips consumption tax from a tax-included amount using integer
// math: floor(amount * 100 / (100 + taxPercent)).
func ExcludeTax(amount int64, taxPercent float64) int64 {
	if taxPercent <= 0 {
		return amount
	}
	return int64(float64(amount) * 100 / (100 + taxPercent))
}

// ApplyRounding rounds amount at the given position (1, 10 or 100) using the
// configured method. Idempotent: rounding an already-rounded amount is a no-op.
func ApplyRounding(amount int64, method models.RoundingMethod, position int64) int64 {
	if position <= 0 {
		position = 1
	}
	switch method {
	case models.RoundFloor:
		return (amount / position) * position
	case models.RoundCeil:
		if amount%position == 0 {
			return amount
		}
		return (amount/position + 1) * position
	case models.RoundHalf:
		rem := amount % position
		if rem*2 >= position {
			return (amount/position + 1) * position
		}
		return (amount / position) * position
	default:
		return amount
	}
}

// Normalize applies tax exclusion then rounding per the resolved policy.
// taxPercent must be the combined percentage matching the policy's exclusion
// flags (consumption tax, service charge, or both). In the per_item timing
// case this runs once per line and the results are summed; in the total
// timing case raw (tax-excluded, unrounded) amounts accumulate and the
// rounding step runs once on the sum via RoundTotal.
func Normalize(amount int64, p Policy, taxPercent float64) int64 {
	if p.ExcludeConsumptionTax || p.ExcludeServiceCharge {
		amount = ExcludeTax(amount, taxPercent)
	}
	if p.RoundingTiming == models.PerItemTiming {
		amount = ApplyRounding(amount, p.RoundingMethod, p.RoundingPosition)
	}
	return amount
}

// EffectiveTaxPercent combines the store's consumption tax and service charge
// percentages per the policy's exclusion flags, for use with Normalize.
func EffectiveTaxPercent(p Policy, consumptionPercent, servicePercent float64) float64 {
	var pct float64
	if p.ExcludeConsumptionTax {
		pct += consumptionPercent
	}
	if p.ExcludeServiceCharge {
		pct += servicePercent
	}
	return pct
}

// RoundTotal applies the policy's rounding to an accumulated sum. Only
// meaningful for the total timing; per_item sums are already rounded.
func RoundTotal(sum int64, p Policy) int64 {
	if p.RoundingTiming != models.TotalTiming {
		return sum
	}
	return ApplyRounding(sum, p.RoundingMethod, p.RoundingPosition)
}
