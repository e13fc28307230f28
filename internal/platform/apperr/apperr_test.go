package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"wrapped validation", fmt.Errorf("%w: discount exceeds subtotal", ErrValidation), "validation_error", http.StatusBadRequest},
		{"double wrapped not found", fmt.Errorf("get order: %w", fmt.Errorf("%w: order", ErrNotFound)), "not_found", http.StatusNotFound},
		{"denied", ErrDenied, "denied", http.StatusForbidden},
		{"transition", fmt.Errorf("%w: PAID -> PAID", ErrInvalidTransition), "invalid_transition", http.StatusUnprocessableEntity},
		{"invalid shop", ErrInvalidShop, "invalid_shop", http.StatusUnprocessableEntity},
		{"unknown", errors.New("connection reset"), "internal_error", http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			kind := KindOf(tc.err)
			require.Equal(t, tc.code, kind.Code)
			require.Equal(t, tc.status, kind.Status)
		})
	}
}

func TestIsInternal(t *testing.T) {
	t.Parallel()

	require.True(t, IsInternal(errors.New("boom")))
	require.False(t, IsInternal(fmt.Errorf("lookup: %w", ErrNotFound)))
}
