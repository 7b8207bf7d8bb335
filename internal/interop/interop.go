package interop

import (
	"errors"
	"fmt"

	"github.com/roach88/metaclass/internal/ir"
)

// ErrUnsupportedMessage is matched (via errors.Is) by every
// UnsupportedMessageError.
var ErrUnsupportedMessage = errors.New("unsupported message")

// UnsupportedMessageError signals that the receiver does not support a
// capability query, e.g. SourceLocation on a value with no known location.
type UnsupportedMessageError struct {
	Message  string // the capability that was asked for
	Receiver string // diagnostic description of the receiver
}

func (e *UnsupportedMessageError) Error() string {
	if e.Receiver != "" {
		return fmt.Sprintf("unsupported message %s for %s", e.Message, e.Receiver)
	}
	return "unsupported message " + e.Message
}

// Is reports whether target is ErrUnsupportedMessage.
func (e *UnsupportedMessageError) Is(target error) bool {
	return target == ErrUnsupportedMessage
}

// Unsupported creates an UnsupportedMessageError.
func Unsupported(message, receiver string) *UnsupportedMessageError {
	return &UnsupportedMessageError{Message: message, Receiver: receiver}
}

// IsUnsupported returns true if err is (or wraps) an unsupported-message signal.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedMessage)
}

// Locatable is implemented by values that may know where they were defined.
//
// SourceLocation must return an UnsupportedMessageError when
// HasSourceLocation is false.
type Locatable interface {
	HasSourceLocation() bool
	SourceLocation() (ir.Location, error)
}

// MetaObject is the introspection capability set of a value that represents
// a category of instances (a class).
type MetaObject interface {
	Locatable

	// IsMetaObject reports whether the receiver is a meta-object.
	IsMetaObject() bool

	// IsMetaInstance reports whether v is an instance of the receiver.
	IsMetaInstance(v ir.Value) bool

	// MetaSimpleName returns the receiver's simple name. Never fails.
	MetaSimpleName() string

	// MetaQualifiedName returns the receiver's qualified name. Never fails.
	MetaQualifiedName() string
}

// Probe answers the generic "does this value carry a source location"
// question over arbitrary values.
type Probe interface {
	HasLocation(v ir.Value) bool
	LocationOf(v ir.Value) (ir.Location, error)
}

// LocationProbe is the standard Probe.
//
// Functions report their definition site; any value implementing Locatable
// (classes included) answers for itself. Locations flagged Internal are
// hidden unless ExposeInternalSources is set, so runtime-internal
// definitions do not show up in tooling by default.
type LocationProbe struct {
	ExposeInternalSources bool
}

// DefaultProbe hides internal sources.
var DefaultProbe Probe = LocationProbe{}

// HasLocation reports whether v carries a visible source location.
func (p LocationProbe) HasLocation(v ir.Value) bool {
	_, err := p.LocationOf(v)
	return err == nil
}

// LocationOf returns v's source location, or an UnsupportedMessageError.
func (p LocationProbe) LocationOf(v ir.Value) (ir.Location, error) {
	var (
		loc ir.Location
		ok  bool
	)
	switch val := v.(type) {
	case *ir.Func:
		loc, ok = val.Location()
	case Locatable:
		if val.HasSourceLocation() {
			var err error
			if loc, err = val.SourceLocation(); err != nil {
				return ir.Location{}, err
			}
			ok = true
		}
	}
	if !ok || !loc.IsValid() || (loc.Internal && !p.ExposeInternalSources) {
		return ir.Location{}, Unsupported("SourceLocation", describe(v))
	}
	return loc, nil
}

func describe(v ir.Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.Kind().String()
}
