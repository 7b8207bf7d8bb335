package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while materializing or looking
// up classes.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Class names the class being defined or looked up.
	Class string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownClass indicates a lookup for a name that is not defined.
	ErrCodeUnknownClass RuntimeErrorCode = "UNKNOWN_CLASS"

	// ErrCodeUnknownBase indicates a declaration naming an undefined base.
	ErrCodeUnknownBase RuntimeErrorCode = "UNKNOWN_BASE"

	// ErrCodeDuplicateClass indicates a class name defined twice.
	ErrCodeDuplicateClass RuntimeErrorCode = "DUPLICATE_CLASS"

	// ErrCodeInvalidHierarchy indicates a cyclic or malformed base list.
	ErrCodeInvalidHierarchy RuntimeErrorCode = "INVALID_HIERARCHY"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Class != "" {
		msg += fmt.Sprintf(" (class=%s)", e.Class)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsUnknownClass returns true if err is an UNKNOWN_CLASS runtime error.
// Uses errors.As to handle wrapped errors.
func IsUnknownClass(err error) bool {
	return hasCode(err, ErrCodeUnknownClass)
}

// IsUnknownBase returns true if err is an UNKNOWN_BASE runtime error.
func IsUnknownBase(err error) bool {
	return hasCode(err, ErrCodeUnknownBase)
}

// IsDuplicateClass returns true if err is a DUPLICATE_CLASS runtime error.
func IsDuplicateClass(err error) bool {
	return hasCode(err, ErrCodeDuplicateClass)
}

// IsInvalidHierarchy returns true if err is an INVALID_HIERARCHY runtime
// error.
func IsInvalidHierarchy(err error) bool {
	return hasCode(err, ErrCodeInvalidHierarchy)
}

// NewUnknownClassError creates a RuntimeError for a failed lookup.
func NewUnknownClassError(name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownClass,
		Message: "no class with this name is defined",
		Class:   name,
	}
}
