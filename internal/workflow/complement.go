package workflow

import "github.com/shopspring/decimal"

// ComplementAmount computes the remainder owed after a partial payment:
// the base order's item total minus the amount actually paid. The base must
// be an approved partial order; the remainder must be strictly positive.
func ComplementAmount(base OrderSnapshot, itemTotal decimal.Decimal) (decimal.Decimal, error) {
	if !base.IsPartial || base.Status != StatusApproved {
		return decimal.Zero, ErrComplementNotAllowed
	}
	if base.ManualAmount == nil {
		return decimal.Zero, ErrComplementNotAllowed
	}

	remaining := itemTotal.Sub(*base.ManualAmount)
	if !remaining.IsPositive() {
		return decimal.Zero, ErrComplementNotAllowed
	}
	return remaining, nil
}

// EffectiveAmount returns the amount payable on an order: the manual override
// when present, the item total otherwise.
func EffectiveAmount(manualAmount *decimal.Decimal, itemTotal decimal.Decimal) decimal.Decimal {
	if manualAmount != nil {
		return *manualAmount
	}
	return itemTotal
}
