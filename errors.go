package geometry

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrParse reports a malformed geometry or offset specification.
	ErrParse = errors.New("parse error")

	// ErrInvalidArgument reports a coordinate count or dimensionality mismatch.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIllegalState reports an operation on a dimension that is not there.
	ErrIllegalState = errors.New("illegal state")

	// ErrUnimplemented reports addressing that is not defined for a kind/rank.
	ErrUnimplemented = errors.New("unimplemented")
)

// ParseError is returned for malformed specifications. Fragment is the
// offending piece of input.
type ParseError struct {
	Spec     string
	Fragment string
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("parse error in %q: %s", e.Spec, e.Reason)
	}
	return fmt.Sprintf("parse error in %q at %q: %s", e.Spec, e.Fragment, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func parseErr(spec, fragment, format string, args ...any) error {
	return &ParseError{Spec: spec, Fragment: fragment, Reason: fmt.Sprintf(format, args...)}
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func illegalState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalState, fmt.Sprintf(format, args...))
}

func unimplemented(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnimplemented, fmt.Sprintf(format, args...))
}
