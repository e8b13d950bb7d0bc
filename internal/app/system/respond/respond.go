// Package respond writes JSON API responses. Errors use the
// {"detail": "..."} shape the admin panel expects.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned by DecodeJSON for an empty request body.
var ErrEmptyBody = errors.New("request body is empty")

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Detail writes an error body.
func Detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"detail": msg})
}

// BadRequest writes 400 with msg.
func BadRequest(w http.ResponseWriter, msg string) {
	Detail(w, http.StatusBadRequest, msg)
}

// NotFound writes 404 with msg.
func NotFound(w http.ResponseWriter, msg string) {
	Detail(w, http.StatusNotFound, msg)
}

// Forbidden writes 403 with msg.
func Forbidden(w http.ResponseWriter, msg string) {
	Detail(w, http.StatusForbidden, msg)
}

// ServerError logs err and writes a generic 500. The error text is not
// sent to the client.
func ServerError(w http.ResponseWriter, log *zap.Logger, msg string, err error, fields ...zap.Field) {
	if log != nil {
		log.Error(msg, append(fields, zap.Error(err))...)
	}
	Detail(w, http.StatusInternalServerError, msg)
}

// DecodeJSON reads a JSON body into v.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
