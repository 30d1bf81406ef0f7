// Package httpx holds the JSON request and response helpers shared by the
// resource handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/s1natex/users-tasks-api/internal/apperr"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

type errResponse struct {
	Error   string              `json:"error"`
	Detail  string              `json:"detail,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// Message is the body of delete confirmations.
type Message struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err as a JSON error body. Anything that does not map to
// a client error is logged and reported as unexpected_error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) || e.Code.HTTPStatus() >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request_failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		WriteJSON(w, http.StatusInternalServerError, errResponse{Error: string(apperr.CodeUnexpected)})
		return
	}
	WriteJSON(w, e.Code.HTTPStatus(), errResponse{
		Error:   string(e.Code),
		Detail:  e.Message,
		Details: e.Details,
	})
}

// DecodeJSON decodes the request body into v, ignoring unknown keys.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decode(w, r, v, false)
}

// DecodeJSONStrict decodes the request body into v and rejects unknown keys.
func DecodeJSONStrict(w http.ResponseWriter, r *http.Request, v any) error {
	return decode(w, r, v, true)
}

func decode(w http.ResponseWriter, r *http.Request, v any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}

	err := dec.Decode(v)
	if err == nil {
		if dec.More() {
			return apperr.New(apperr.CodeInvalidJSON, "request body must contain a single JSON object")
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return apperr.New(apperr.CodeInvalidJSON, "request body is required")
	case errors.As(err, &maxErr):
		return apperr.New(apperr.CodeInvalidJSON, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return apperr.Validation(apperr.FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be a valid %s", jsonKind(typeErr.Type.Kind().String())),
		})
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return apperr.Validation(apperr.FieldError{Field: field, Message: "unknown field"})
	default:
		return apperr.Wrap(apperr.CodeInvalidJSON, "request body is not valid JSON", err)
	}
}

func jsonKind(kind string) string {
	switch {
	case strings.HasPrefix(kind, "int"), strings.HasPrefix(kind, "uint"):
		return "integer"
	case kind == "bool":
		return "boolean"
	case kind == "struct", kind == "map":
		return "object"
	default:
		return kind
	}
}

// PathID parses the named chi URL parameter as an integer id.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation(apperr.FieldError{Field: name, Message: "must be a valid integer"})
	}
	return id, nil
}

// Required returns a "field required" error for each missing name.
func Required(missing ...string) []apperr.FieldError {
	out := make([]apperr.FieldError, 0, len(missing))
	for _, name := range missing {
		out = append(out, apperr.FieldError{Field: name, Message: "field required"})
	}
	return out
}
