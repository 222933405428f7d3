package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrRuleViolation = errors.New("business rule violation")
	ErrOutOfRange    = errors.New("out of range")
	ErrUnavailable   = errors.New("unavailable")
)

// MsgRequired is the validation message for mandatory references.
const MsgRequired = "is required"

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// RuleError reports a violated business rule, such as a box that does not fit
// its pallet or a production date in the future. Every RuleError matches
// ErrRuleViolation; Kind optionally narrows it to ErrNotFound or ErrConflict
// so callers can branch on the specific failure.
type RuleError struct {
	Kind    error
	Message string
}

// NewRuleError returns a plain business-rule violation.
func NewRuleError(format string, args ...any) *RuleError {
	return &RuleError{Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError returns a rule violation specialized as ErrNotFound.
func NewNotFoundError(format string, args ...any) *RuleError {
	return &RuleError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError returns a rule violation specialized as ErrConflict.
func NewConflictError(format string, args ...any) *RuleError {
	return &RuleError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func (e *RuleError) Error() string {
	return e.Message
}

func (e *RuleError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrRuleViolation}
	}
	return []error{ErrRuleViolation, e.Kind}
}

// RangeError reports a query parameter outside its accepted range.
type RangeError struct {
	Param string
	Value int
	Want  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s %s, got %d", ErrOutOfRange.Error(), e.Param, e.Want, e.Value)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
