package state

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry contract violations. Every failure is a
// programming error on the caller's side, surfaced synchronously; none of
// them is transient. Use errors.Is to classify.
var (
	// ErrUnregisteredSource indicates an operation referenced a source id
	// that is not registered in the target state instance.
	ErrUnregisteredSource = errors.New("source is not registered")

	// ErrUnknownFrame indicates a referenced frame id is not registered in
	// the target state instance (removed, never created, or registered in a
	// different instance).
	ErrUnknownFrame = errors.New("frame has not been registered")

	// ErrUnknownGeometry is the geometry analogue of ErrUnknownFrame.
	ErrUnknownGeometry = errors.New("geometry has not been registered")

	// ErrOwnership indicates the caller-specified source does not own the
	// target id.
	ErrOwnership = errors.New("source does not own the target")

	// ErrDuplicateName indicates a name collision within the same sibling
	// or source scope.
	ErrDuplicateName = errors.New("name is already in use")

	// ErrInvalidName indicates an empty or otherwise unusable name.
	ErrInvalidName = errors.New("name is not usable")

	// ErrPortUnconnected indicates a source with registered frames provided
	// no pose input at evaluation time.
	ErrPortUnconnected = errors.New("no pose values provided on the input port")

	// ErrPortMismatch indicates a pose input whose frame set does not
	// exactly equal the source's registered frames.
	ErrPortMismatch = errors.New("pose input does not match the source's registered frames")

	// ErrNotFound indicates a name lookup matched nothing.
	ErrNotFound = errors.New("no geometry matches the given name")

	// ErrAmbiguousName indicates a name lookup matched more than one
	// candidate.
	ErrAmbiguousName = errors.New("name is ambiguous")
)

// Error wraps a sentinel with the failing operation and a human-readable
// detail. It supports errors.Is/errors.As through Unwrap.
type Error struct {
	// Op is the operation that failed, e.g. "GeometryState.RegisterFrame".
	Op string

	// Err is the sentinel classifying the failure.
	Err error

	// Detail narrates the specific violation.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Detail, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, sentinel error, format string, args ...any) *Error {
	return &Error{Op: op, Err: sentinel, Detail: fmt.Sprintf(format, args...)}
}
