package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	// ErrEmptyInput: a cohort has no subjects or no instructors. Reported
	// per cohort by the generation orchestrator, not fatal to the request.
	ErrEmptyInput = New("EMPTY_INPUT", http.StatusUnprocessableEntity, "cohort has no subjects or no instructors")
	// ErrMalformedAvailability: an instructor's availability JSON could
	// not be parsed. Fatal to the (cohort, variant) attempt it occurred in.
	ErrMalformedAvailability = New("MALFORMED_AVAILABILITY", http.StatusUnprocessableEntity, "instructor availability is malformed")
	// ErrInfeasible: the solver proved no assignment satisfies the hard
	// constraints for a cohort's variant.
	ErrInfeasible = New("INFEASIBLE", http.StatusUnprocessableEntity, "no assignment satisfies the hard constraints")
	// ErrSolveTimeout: the solver exhausted its wall-clock budget without
	// proving optimality or infeasibility.
	ErrSolveTimeout = New("SOLVE_TIMEOUT", http.StatusGatewayTimeout, "solver exceeded its time budget")
	// ErrStore: the solution writer failed to persist an accepted
	// solution.
	ErrStore = New("STORE_ERROR", http.StatusInternalServerError, "failed to persist timetable")
	// ErrCatalog: the catalog reader failed to read cohorts, subjects or
	// instructors for a program.
	ErrCatalog = New("CATALOG_ERROR", http.StatusInternalServerError, "failed to read catalog data")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
