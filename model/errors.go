package model

import (
	"fmt"
	"strings"
)

// MalformedInputError reports a source that yields no usable table or whose
// shape cannot be recovered.
type MalformedInputError struct {
	Source string // optional file or adapter name
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("malformed input %s: %s", e.Source, e.Reason)
	}
	return "malformed input: " + e.Reason
}

// EncodingError reports that no candidate text encoding decoded the source.
type EncodingError struct {
	Attempted []string
}

func (e *EncodingError) Error() string {
	return "no candidate encoding could decode input (tried " + strings.Join(e.Attempted, ", ") + ")"
}

// GeometryError reports an invalid page or layout configuration.
type GeometryError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *GeometryError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %g", e.Field, e.Value)
}

// CollaboratorError wraps a failure raised by a format library.
type CollaboratorError struct {
	Op    string
	Cause error
}

func (e *CollaboratorError) Error() string {
	return e.Op + ": " + e.Cause.Error()
}

func (e *CollaboratorError) Unwrap() error { return e.Cause }

// Wrap returns a CollaboratorError for cause, or nil when cause is nil.
func Wrap(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &CollaboratorError{Op: op, Cause: cause}
}

// UnsupportedConversionError reports a source/target pair with no strategy.
type UnsupportedConversionError struct {
	From, To string
	Reason   string
}

func (e *UnsupportedConversionError) Error() string {
	msg := fmt.Sprintf("unsupported conversion %s -> %s", e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
