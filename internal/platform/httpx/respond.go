// Package httpx holds the JSON response helpers shared by module handlers.
package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
	"github.com/georgemunganga/printa-backoffice/internal/platform/logging"
)

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Decode reads a JSON body into dst. Malformed bodies are validation errors.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &decodeError{msg: err.Error()}
	}
	return nil
}

type decodeError struct{ msg string }

func (e *decodeError) Error() string { return "malformed request body: " + e.msg }
func (e *decodeError) Unwrap() error { return apperr.ErrValidation }

// Error maps err onto the taxonomy and writes the error envelope.
// Internal errors are logged and their message is not echoed to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	msg := sanitize(err.Error())
	if kind.Status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", zap.Error(err))
		msg = "internal server error"
	}

	payload := map[string]interface{}{
		"error":   kind.Code,
		"message": msg,
		"status":  kind.Status,
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		payload["request_id"] = id
	}
	Respond(w, kind.Status, payload)
}

func sanitize(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.TrimSpace(value)
	if len(value) > 512 {
		value = value[:512]
	}
	return value
}

// UUIDParam parses the chi URL parameter name as a UUID.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return ParseUUID(name, chi.URLParam(r, name))
}

// ParseUUID parses raw, reporting failures as validation errors on field.
func ParseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", apperr.ErrValidation, field)
	}
	return id, nil
}
