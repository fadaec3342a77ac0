package failure_test

import (
	"errors"
	"fmt"
	"kumbam/shared/failure"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "missing field",
	}

	if f.Error() != "missing field" {
		t.Errorf("expected error message to be 'missing field', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "bad request from error",
			err:     failure.BadRequest(errors.New("invalid phone")),
			code:    http.StatusBadRequest,
			message: "invalid phone",
		},
		{
			name:    "bad request from string",
			err:     failure.BadRequestFromString("invalid email"),
			code:    http.StatusBadRequest,
			message: "invalid email",
		},
		{
			name:    "unauthorized",
			err:     failure.Unauthorized("token expired"),
			code:    http.StatusUnauthorized,
			message: "token expired",
		},
		{
			name:    "internal error",
			err:     failure.InternalError(errors.New("database connection failed")),
			code:    http.StatusInternalServerError,
			message: "database connection failed",
		},
		{
			name:    "bad gateway",
			err:     failure.BadGateway("payment gateway rejected the request"),
			code:    http.StatusBadGateway,
			message: "payment gateway rejected the request",
		},
		{
			name:    "not found",
			err:     failure.NotFound("payment not found"),
			code:    http.StatusNotFound,
			message: "payment not found",
		},
		{
			name:    "conflict",
			err:     failure.Conflict("dates already booked"),
			code:    http.StatusConflict,
			message: "dates already booked",
		},
		{
			name:    "forbidden",
			err:     failure.Forbidden("Access denied"),
			code:    http.StatusForbidden,
			message: "Access denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.err.(*failure.Failure)
			if !ok {
				t.Fatalf("expected *failure.Failure, got %T", tt.err)
			}

			if f.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, f.Code)
			}

			if f.Message != tt.message {
				t.Errorf("expected message to be %q, got %q", tt.message, f.Message)
			}
		})
	}
}

func TestNilInputs(t *testing.T) {
	if err := failure.BadRequest(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	if err := failure.InternalError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("submit booking: %w", failure.Conflict("dates already booked")),
			expected: http.StatusConflict,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("create booking: %w", failure.Conflict("dates already booked"))

	fail, ok := failure.As(wrapped)
	if !ok || fail.Message != "dates already booked" || fail.Code != http.StatusConflict {
		t.Errorf("expected wrapped conflict to unwrap, got %v %v", fail, ok)
	}

	if _, ok := failure.As(errors.New("plain")); ok {
		t.Error("expected plain error not to unwrap")
	}
}
