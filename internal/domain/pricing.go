package domain

// Totals is the derived pricing pair for a quote or order line set
type Totals struct {
	Subtotal    float64
	FinalAmount float64
}

// CalculateTotals recomputes subtotal and final amount from the current lines.
// Lines without an admin-set unit price contribute zero. The final amount is
// clamped at zero so an oversized discount can never go negative.
//
// This is the single pricing function: every line, discount or delivery-fee
// mutation must run through it before persisting, so no stale total survives.
func CalculateTotals(lines []QuoteLine, discount, deliveryFee float64) Totals {
	var subtotal float64
	for _, line := range lines {
		if line.UnitPrice == nil {
			continue
		}
		subtotal += *line.UnitPrice * float64(line.Quantity)
	}

	final := subtotal - discount + deliveryFee
	if final < 0 {
		final = 0
	}
	return Totals{Subtotal: subtotal, FinalAmount: final}
}

// LineTotal returns unitPrice * quantity for a line whose price is set,
// or nil when the admin has not priced it yet.
func LineTotal(line QuoteLine) *float64 {
	if line.UnitPrice == nil {
		return nil
	}
	t := *line.UnitPrice * float64(line.Quantity)
	return &t
}

// ClampQuantity caps a requested quantity to the available stock of a catalog
// product. It returns the effective quantity and whether clamping happened;
// clamping is a warning for the caller to surface, not an error.
func ClampQuantity(requested, stock int) (int, bool) {
	if requested > stock {
		return stock, true
	}
	return requested, false
}
