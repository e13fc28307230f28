package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// ErrInvalidDiscount is returned when a discount is negative or exceeds the subtotal.
var ErrInvalidDiscount = fmt.Errorf("%w: invalid discount", apperr.ErrValidation)

// Line is one priced entry fed to ComputeTotals.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total is quantity times unit price.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals is the result of pricing an order. FinalAmount is always Subtotal minus Discount.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// ComputeTotals prices lines with a flat discount. It has no side effects and
// returns identical results for identical input.
func ComputeTotals(lines []Line, discount decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, fmt.Errorf("%w: order must contain at least one item", apperr.ErrValidation)
	}
	subtotal := decimal.Zero
	for i, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, fmt.Errorf("%w: line %d: quantity must be > 0", apperr.ErrValidation, i+1)
		}
		if l.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("%w: line %d: unit price must not be negative", apperr.ErrValidation, i+1)
		}
		subtotal = subtotal.Add(l.Total())
	}

	if discount.IsNegative() {
		return Totals{}, fmt.Errorf("%w: %s is negative", ErrInvalidDiscount, discount)
	}
	if discount.GreaterThan(subtotal) {
		return Totals{}, fmt.Errorf("%w: %s exceeds subtotal %s", ErrInvalidDiscount, discount, subtotal)
	}

	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		FinalAmount: subtotal.Sub(discount),
	}, nil
}
