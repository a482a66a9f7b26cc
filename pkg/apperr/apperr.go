// Package apperr provides the scheduler's error taxonomy (spec §7).
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a scheduler error kind.
type Code string

const (
	CodeNoEmployees      Code = "NO_EMPLOYEES"
	CodeNoQualifications Code = "NO_QUALIFICATIONS"
	CodeInfeasible       Code = "INFEASIBLE"
	CodeNlpNotConfigured Code = "NLP_NOT_CONFIGURED"
	CodeOracleFailure    Code = "ORACLE_FAILURE"
	CodeUnknownSchedule  Code = "UNKNOWN_SCHEDULE"
	CodeInvalidInput     Code = "INVALID_INPUT"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// AppError is the scheduler's error type: a stable code, a human message,
// and an optional cause.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with no cause.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an AppError carrying cause as its root cause.
func Wrap(cause error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// NoEmployees reports that the input employee set is empty.
func NoEmployees() *AppError {
	return New(CodeNoEmployees, "no employees registered")
}

// NoQualifications reports that no employee has any qualification.
func NoQualifications() *AppError {
	return New(CodeNoQualifications, "no job category qualifications assigned to any employee")
}

// Infeasible reports that the solver could not produce OPTIMAL or FEASIBLE
// within its time cap.
func Infeasible(detail string) *AppError {
	return New(CodeInfeasible, "could not find a feasible schedule: "+detail)
}

// NlpNotConfigured reports a missing or placeholder oracle credential.
func NlpNotConfigured() *AppError {
	return New(CodeNlpNotConfigured, "natural-language patching is not configured")
}

// OracleFailure wraps a failed or malformed oracle call.
func OracleFailure(cause error) *AppError {
	return Wrap(cause, CodeOracleFailure, "oracle call failed")
}

// UnknownSchedule reports a reference to a schedule id that doesn't exist.
func UnknownSchedule(id int64) *AppError {
	return New(CodeUnknownSchedule, fmt.Sprintf("unknown schedule id %d", id))
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the Code from err, or CodeInternal if err isn't an AppError.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus maps a Code to the status a transport layer fronting this core
// should return (spec §7); the core itself never serves HTTP.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNoEmployees, CodeNoQualifications, CodeInfeasible, CodeNlpNotConfigured, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnknownSchedule:
		return http.StatusNotFound
	case CodeOracleFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
