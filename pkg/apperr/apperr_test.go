package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestIsAndGetCode(t *testing.T) {
	err := Infeasible("no solution within cap")
	if !Is(err, CodeInfeasible) {
		t.Error("expected Is to match CodeInfeasible")
	}
	if Is(err, CodeUnknownSchedule) {
		t.Error("did not expect Is to match CodeUnknownSchedule")
	}
	if got := GetCode(err); got != CodeInfeasible {
		t.Errorf("GetCode = %s, expected %s", got, CodeInfeasible)
	}

	plain := errors.New("boom")
	if got := GetCode(plain); got != CodeInternal {
		t.Errorf("GetCode(plain error) = %s, expected %s", got, CodeInternal)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNoEmployees, http.StatusBadRequest},
		{CodeInfeasible, http.StatusBadRequest},
		{CodeUnknownSchedule, http.StatusNotFound},
		{CodeOracleFailure, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, expected %d", tt.code, got, tt.want)
		}
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := OracleFailure(cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}
