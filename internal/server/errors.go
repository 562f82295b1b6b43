package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/rs/zerolog/hlog"

	"workspace_gateway/internal/apierr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError is the single place where failures become HTTP responses.
// The status comes from the error's kind; the error chain is only
// exposed for server errors outside production.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apierr.KindOf(err)
	status := apierr.HTTPStatus(kind)

	event := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}
	event.Err(err).
		Str("kind", kind.String()).
		Int("status", status).
		Msg("Request failed")

	body := errorResponse{Error: err.Error()}
	if status >= http.StatusInternalServerError && !s.production {
		body.Details = errorChain(err)
	}
	writeJSON(w, status, body)
}

func errorChain(err error) []string {
	var chain []string
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		chain = append(chain, e.Error())
	}
	return chain
}

// decodeJSON reads a size-limited JSON body. Malformed input is a
// validation failure; decoder internals stay in the log.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.limits.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apierr.Validation("decode request body", "request body exceeds %d bytes", maxErr.Limit)
		}
		hlog.FromRequest(r).Debug().Err(err).Msg("Rejected request body")
		return apierr.Validation("decode request body", "%s", bodyErrorMessage(err))
	}
	return nil
}

func bodyErrorMessage(err error) string {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		cellErr   *cellValueError
	)
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &cellErr):
		return cellErr.Error()
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return "request body must be " + jsonKind(typeErr.Type)
		}
		return fmt.Sprintf("%q must be %s", typeErr.Field, jsonKind(typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "malformed JSON body"
	}
	return "invalid request body"
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	}
	return "a valid value"
}
