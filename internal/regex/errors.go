package regex

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is the cause of every SyntaxError that is due to the
	// pattern text itself being invalid.
	ErrMalformed = errors.New("malformed regular expression")

	// ErrTooDeep is the cause of a SyntaxError returned when a pattern nests
	// groups or classes more deeply than the parser allows.
	ErrTooDeep = errors.New("regular expression nested too deeply")
)

// SyntaxError is returned when a pattern cannot be compiled. It gives the
// pattern as it was originally written along with the 0-indexed rune offset
// into it where the problem was found.
//
// Calling errors.Is on a SyntaxError with ErrMalformed or ErrTooDeep will
// return true if that is what caused it.
type SyntaxError struct {
	// Pattern is the pattern as it was given.
	Pattern string

	// Offset is the rune offset into Pattern where the error was detected.
	// It is equal to the length of Pattern if the error is at the end of it.
	Offset int

	// Reason is a short human-readable explanation of the problem.
	Reason string

	cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern %q: offset %d: %s", e.Pattern, e.Offset, e.Reason)
}

// Unwrap returns ErrMalformed or ErrTooDeep.
func (e *SyntaxError) Unwrap() error {
	return e.cause
}

// Caret returns the pattern followed by a second line that has a caret under
// the offending rune, for display in terminals.
func (e *SyntaxError) Caret() string {
	pad := make([]rune, 0, e.Offset)
	for i, r := range []rune(e.Pattern) {
		if i >= e.Offset {
			break
		}
		if r == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	for len(pad) < e.Offset {
		pad = append(pad, ' ')
	}
	return e.Pattern + "\n" + string(pad) + "^"
}

func malformed(pattern string, offset int, format string, a ...interface{}) error {
	return &SyntaxError{
		Pattern: pattern,
		Offset:  offset,
		Reason:  fmt.Sprintf(format, a...),
		cause:   ErrMalformed,
	}
}

func tooDeep(pattern string, offset int, limit int) error {
	return &SyntaxError{
		Pattern: pattern,
		Offset:  offset,
		Reason:  fmt.Sprintf("nesting exceeds limit of %d", limit),
		cause:   ErrTooDeep,
	}
}
