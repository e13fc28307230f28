package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

func TestErrorEnvelope(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"wrapped not found", fmt.Errorf("%w: order 42", apperr.ErrNotFound), http.StatusNotFound, "not_found", "not found: order 42"},
		{"transition", apperr.ErrInvalidTransition, http.StatusUnprocessableEntity, "invalid_transition", "invalid status transition"},
		{"no shop", apperr.ErrNoShopSelected, http.StatusConflict, "no_shop_selected", "no shop selected"},
		{"internal hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error", "internal server error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

		require.Equal(t, tc.status, rec.Code, tc.name)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), tc.name)
		require.Equal(t, tc.code, body["error"], tc.name)
		require.Equal(t, tc.msg, body["message"], tc.name)
	}
}

func TestDecodeMalformedBodyIsValidation(t *testing.T) {
	t.Parallel()
	var dst struct{ Name string }
	err := Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")), &dst)
	require.True(t, errors.Is(err, apperr.ErrValidation))

	require.NoError(t, Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Name":"A3"}`)), &dst))
	require.Equal(t, "A3", dst.Name)
}

func TestUUIDParam(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	var got uuid.UUID
	var gotErr error

	r := chi.NewRouter()
	r.Get("/orders/{id}", func(w http.ResponseWriter, req *http.Request) {
		got, gotErr = UUIDParam(req, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/"+id.String(), nil))
	require.NoError(t, gotErr)
	require.Equal(t, id, got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil))
	require.True(t, errors.Is(gotErr, apperr.ErrValidation))
}
