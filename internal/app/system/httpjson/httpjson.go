// internal/app/system/httpjson/httpjson.go
//
// Package httpjson provides the JSON request/response conventions for the
// API: payload decoding with a size cap, success responses, and the
// `{"error": "..."}` error shape. Internal failures are logged with their
// detail server-side but surface only a generic message to the caller.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies. CSV imports use their own limit.
const maxBodyBytes = 1 << 20 // 1 MiB

// errorBody is the wire form for all error responses.
type errorBody struct {
	Error string `json:"error"`
}

// Respond writes v as JSON with the given status code.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes an error response with the given status and message.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, errorBody{Error: msg})
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, msg)
}

// NotFound writes a 404 with the given message.
func NotFound(w http.ResponseWriter, msg string) {
	Error(w, http.StatusNotFound, msg)
}

// Conflict writes a 409 with the given message.
func Conflict(w http.ResponseWriter, msg string) {
	Error(w, http.StatusConflict, msg)
}

// Internal logs err with full detail and writes a 500 with a generic
// message. The underlying error never reaches the caller.
func Internal(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	log.Error(op, zap.Error(err))
	Error(w, http.StatusInternalServerError, "an internal error occurred")
}

// Decode reads the request body into v. It rejects unknown fields and
// bodies over the size cap so malformed payloads fail loudly at the
// boundary instead of half-populating a struct.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// Trailing content after the JSON value is also malformed input.
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
