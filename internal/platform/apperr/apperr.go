// Package apperr defines the error taxonomy shared by every module.
// Modules wrap these sentinels with fmt.Errorf("%w: ...") and the HTTP layer
// maps them back with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrDenied            = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidShop       = errors.New("invalid shop")
	ErrNoShopSelected    = errors.New("no shop selected")
)

// Kind describes how an error is surfaced at the HTTP boundary.
type Kind struct {
	Code   string
	Status int
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrValidation, Kind{"validation_error", http.StatusBadRequest}},
	{ErrUnauthorized, Kind{"unauthorized", http.StatusUnauthorized}},
	{ErrDenied, Kind{"denied", http.StatusForbidden}},
	{ErrNotFound, Kind{"not_found", http.StatusNotFound}},
	{ErrConflict, Kind{"conflict", http.StatusConflict}},
	{ErrInvalidTransition, Kind{"invalid_transition", http.StatusUnprocessableEntity}},
	{ErrInvalidShop, Kind{"invalid_shop", http.StatusUnprocessableEntity}},
	{ErrNoShopSelected, Kind{"no_shop_selected", http.StatusConflict}},
}

var internal = Kind{Code: "internal_error", Status: http.StatusInternalServerError}

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return internal
}

// IsInternal reports whether err falls outside the taxonomy.
func IsInternal(err error) bool {
	return KindOf(err) == internal
}
