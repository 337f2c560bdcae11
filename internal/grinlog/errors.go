package grinlog

import (
	"errors"
	"fmt"
)

// ErrFormat matches every parse failure of a received-tx line.
var ErrFormat = errors.New("malformed received-tx line")

// Specific parse failures. Each ParseError wraps one of these as well as ErrFormat.
var (
	// ErrMissingSeparator is returned when no ", " follows the marker.
	ErrMissingSeparator = errors.New(`missing ", " after marker`)

	// ErrInvalidCounts is returned when the "<inputs>/<outputs>/<kernels>" token is malformed.
	ErrInvalidCounts = errors.New("invalid in/out/kernel counts")

	// ErrMissingSection is returned when one of Inputs, Outputs or Kernels is absent.
	ErrMissingSection = errors.New("missing section")

	// ErrMissingBracket is returned when a section has no "[...]" span.
	ErrMissingBracket = errors.New("missing bracketed list")

	// ErrMalformedCommitment is returned when a list item is not a 78-character Commitment(...) wrapper.
	ErrMalformedCommitment = errors.New("malformed commitment")

	// ErrCountMismatch is returned when a section holds a different number of items than declared.
	ErrCountMismatch = errors.New("item count does not match declared count")
)

// ParseError describes a malformed received-tx line.
type ParseError struct {
	// Line is the 1-based line number in the source, or 0 when unknown.
	Line int

	// Err is the specific failure, wrapping one of the sentinel errors.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %v", e.Line, ErrFormat, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrFormat, e.Err)
}

// Unwrap exposes both ErrFormat and the specific failure to errors.Is.
func (e *ParseError) Unwrap() []error {
	return []error{ErrFormat, e.Err}
}

func formatError(sentinel error, format string, args ...any) *ParseError {
	return &ParseError{Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}
