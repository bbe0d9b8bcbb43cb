package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain-rule violations. Infrastructure failures
// (connectivity, constraint internals) are deliberately outside this
// taxonomy and surface as plain wrapped errors.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindForbidden         ErrorKind = "forbidden"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindInvalidInput      ErrorKind = "invalid_input"
	KindConflict          ErrorKind = "conflict"
)

// Error carries a stable kind tag plus a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return NewError(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return NewError(KindForbidden, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return NewError(KindInvalidTransition, format, args...)
}

func InvalidInput(format string, args ...any) *Error {
	return NewError(KindInvalidInput, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return NewError(KindConflict, format, args...)
}

// KindOf extracts the domain kind from err, or "" for infrastructure
// errors. Callers must not infer domain meaning from the latter.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given domain kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
