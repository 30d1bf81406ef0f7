package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusBadRequest},
		{CodeInvalidJSON, http.StatusBadRequest},
		{CodeValidation, http.StatusUnprocessableEntity},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUnexpected, http.StatusInternalServerError},
		{Code("something_else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("replace: %w", NotFound("User not found"))

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound)")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("not_found must not match conflict")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error in chain")
	}
	if e.Message != "User not found" {
		t.Fatalf("message = %q", e.Message)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(CodeUnexpected, "list users", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if err.Error() != "list users" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestValidationCarriesDetails(t *testing.T) {
	err := Validation(FieldError{Field: "name", Message: "field required"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error")
	}
	if len(err.Details) != 1 || err.Details[0].Field != "name" {
		t.Fatalf("details = %+v", err.Details)
	}
}
