package core

// errors.go defines the typed conversion errors returned by the pipeline.
//
// Every failure in Load, Filter, BuildManifest or Process is reported as an
// *Error carrying one of the ErrorKind values below. Transport layers use
// KindOf (or MapError in error_messages.go) to pick a status code and a
// user-facing message; the pipeline never panics on bad input.

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a conversion failure.
type ErrorKind string

const (
	UnsupportedFormat ErrorKind = "unsupported_format"
	StructuralError   ErrorKind = "structural_error"
	ParseError        ErrorKind = "parse_error"
	MissingColumn     ErrorKind = "missing_column"
	EmptyUpload       ErrorKind = "empty_upload"
)

// Error is a conversion failure with a kind and a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error // Underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, &core.Error{Kind: core.MissingColumn}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// MissingColumnError reports a column absent from a table's header.
func MissingColumnError(column string) *Error {
	return newError(MissingColumn, nil, "column not found: %q", column)
}

// KindOf returns the ErrorKind of err, or "" if err is not a conversion error.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err is a conversion error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
