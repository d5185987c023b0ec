package compiler

import (
	"errors"
	"fmt"

	"github.com/52North/SOS-sub007/internal/temporal"
)

// ErrorKind categorizes filter rejections.
type ErrorKind string

const (
	// KindUnsupportedOperator indicates the relation is not a known
	// temporal relation.
	KindUnsupportedOperator ErrorKind = "UNSUPPORTED_OPERATOR"

	// KindUnsupportedValueReference indicates the value reference does not
	// name a catalogued field.
	KindUnsupportedValueReference ErrorKind = "UNSUPPORTED_VALUE_REFERENCE"

	// KindUnsupportedTime indicates the relation is undefined for the
	// field's shape, or the reference time is malformed.
	KindUnsupportedTime ErrorKind = "UNSUPPORTED_TIME"
)

// Error reports a rejected temporal filter. Rejections describe invalid
// client input; they are never transient.
type Error struct {
	// Kind identifies the rejection category.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Relation is the relation of the rejected filter, if known.
	Relation temporal.Relation

	// ValueReference is the value reference of the rejected filter.
	ValueReference string

	// Ordinal is the 1-based position of the filter in the compiled list,
	// or 0 outside a list.
	Ordinal int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Ordinal > 0 {
		return fmt.Sprintf("%s: %s (filter %d)", e.Kind, e.Message, e.Ordinal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnsupportedOperator returns true if err is an UNSUPPORTED_OPERATOR
// rejection. Uses errors.As to handle wrapped errors.
func IsUnsupportedOperator(err error) bool {
	return hasKind(err, KindUnsupportedOperator)
}

// IsUnsupportedValueReference returns true if err is an
// UNSUPPORTED_VALUE_REFERENCE rejection.
func IsUnsupportedValueReference(err error) bool {
	return hasKind(err, KindUnsupportedValueReference)
}

// IsUnsupportedTime returns true if err is an UNSUPPORTED_TIME rejection.
func IsUnsupportedTime(err error) bool {
	return hasKind(err, KindUnsupportedTime)
}

// IsRejection returns true if err is any filter rejection.
func IsRejection(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

func hasKind(err error, kind ErrorKind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}
