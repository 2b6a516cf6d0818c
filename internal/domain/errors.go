package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable error code surfaced to callers.
type ErrorKind string

const (
	ErrorKindNotFound        ErrorKind = "NOT_FOUND"
	ErrorKindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	ErrorKindConflict        ErrorKind = "CONFLICT"
)

// Error carries an error kind alongside a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrorKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: ErrorKindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrorKindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain, or "" for plain errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
