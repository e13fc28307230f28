package order

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotalsWorkedExample(t *testing.T) {
	t.Parallel()
	lines := []Line{
		{Quantity: 2, UnitPrice: dec("10.00")},
		{Quantity: 1, UnitPrice: dec("5.00")},
	}
	totals, err := ComputeTotals(lines, dec("3.00"))
	require.NoError(t, err)
	require.Equal(t, "25.00", totals.Subtotal.StringFixed(2))
	require.Equal(t, "3.00", totals.Discount.StringFixed(2))
	require.Equal(t, "22.00", totals.FinalAmount.StringFixed(2))
}

func TestComputeTotalsDiscountBounds(t *testing.T) {
	t.Parallel()
	lines := []Line{{Quantity: 3, UnitPrice: dec("0.10")}}

	cases := []struct {
		name     string
		discount string
		wantErr  bool
	}{
		{name: "zero", discount: "0"},
		{name: "whole subtotal", discount: "0.30"},
		{name: "one cent over", discount: "0.31", wantErr: true},
		{name: "negative", discount: "-0.01", wantErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			totals, err := ComputeTotals(lines, dec(tc.discount))
			if tc.wantErr {
				require.True(t, errors.Is(err, ErrInvalidDiscount))
				require.True(t, errors.Is(err, apperr.ErrValidation))
				return
			}
			require.NoError(t, err)
			require.True(t, totals.FinalAmount.Equal(totals.Subtotal.Sub(dec(tc.discount))))
		})
	}
}

func TestComputeTotalsRejectsBadLines(t *testing.T) {
	t.Parallel()
	_, err := ComputeTotals(nil, decimal.Zero)
	require.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = ComputeTotals([]Line{{Quantity: 0, UnitPrice: dec("1")}}, decimal.Zero)
	require.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = ComputeTotals([]Line{{Quantity: 1, UnitPrice: dec("-1")}}, decimal.Zero)
	require.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestComputeTotalsIsDeterministic(t *testing.T) {
	t.Parallel()
	// Values that drift under binary floating point.
	lines := []Line{
		{Quantity: 7, UnitPrice: dec("0.10")},
		{Quantity: 3, UnitPrice: dec("0.20")},
		{Quantity: 1, UnitPrice: dec("19.99")},
	}
	discount := dec("0.33")

	first, err := ComputeTotals(lines, discount)
	require.NoError(t, err)
	require.Equal(t, "21.29", first.Subtotal.StringFixed(2))
	require.Equal(t, "20.96", first.FinalAmount.StringFixed(2))

	for i := 0; i < 100; i++ {
		again, err := ComputeTotals(lines, discount)
		require.NoError(t, err)
		require.True(t, again.Subtotal.Equal(first.Subtotal))
		require.True(t, again.FinalAmount.Equal(first.FinalAmount))
		require.True(t, again.FinalAmount.Equal(again.Subtotal.Sub(again.Discount)))
	}
}
