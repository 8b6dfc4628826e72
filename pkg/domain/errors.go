package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when a folder name collides with an existing one.
	ErrDuplicateName = errors.New("folder name already exists")
	// ErrInvalidName is returned for empty or whitespace-only names.
	ErrInvalidName = errors.New("name cannot be empty")
	// ErrNotFound is returned for stale references to notes or folders.
	ErrNotFound = errors.New("not found")
	// ErrRemoteUnavailable wraps network and service failures of a collaborator.
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	// ErrMalformedResponse is returned when a collaborator answers with an unexpected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrReservedFolder is returned for mutations the reserved folder does not allow.
	ErrReservedFolder = errors.New("reserved folder cannot be modified")
)

// Error carries the operation that failed next to its kind so that callers
// can both print a useful message and match the kind with errors.Is.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap tags err with kind. A nil err still produces an error of that kind.
func Wrap(kind error, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsValidation reports whether err is a caller mistake rather than a remote failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrReservedFolder)
}
