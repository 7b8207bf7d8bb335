package class

import (
	"errors"
	"fmt"
)

// HierarchyErrorCode categorizes invalid base-class sequences.
type HierarchyErrorCode string

const (
	// ErrCodeInvalidHierarchy indicates a base that is not a valid class
	// reference.
	ErrCodeInvalidHierarchy HierarchyErrorCode = "INVALID_HIERARCHY"

	// ErrCodeDuplicateBase indicates the same class listed twice as a base.
	ErrCodeDuplicateBase HierarchyErrorCode = "DUPLICATE_BASE"
)

// HierarchyError is returned by NewChecked for a malformed base list.
type HierarchyError struct {
	Code      HierarchyErrorCode
	ClassName string
	Index     int // position of the offending base
	Message   string
}

func (e *HierarchyError) Error() string {
	return fmt.Sprintf("%s: class %q base[%d]: %s", e.Code, e.ClassName, e.Index, e.Message)
}

// IsHierarchyError returns true if err is (or wraps) a HierarchyError.
func IsHierarchyError(err error) bool {
	var he *HierarchyError
	return errors.As(err, &he)
}

// ErrNoAttribute is returned by GetAttribute when the name resolves nowhere.
var ErrNoAttribute = errors.New("no such attribute")

// AttributeError wraps ErrNoAttribute with the lookup that failed.
type AttributeError struct {
	Receiver string
	Name     string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s has no attribute %q", e.Receiver, e.Name)
}

func (e *AttributeError) Unwrap() error {
	return ErrNoAttribute
}
