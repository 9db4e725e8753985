// Package tlerrors has errors that carry a message meant for the person at the
// console alongside the usual technical one, and a way to pick the best
// message to show for any error.
package tlerrors

import (
	"errors"
	"fmt"

	"github.com/dekarrin/tunalex/internal/lex"
	"github.com/dekarrin/tunalex/internal/regex"
)

// consoleError is an error caused by input given at the console. It includes
// a human-readable message to show to an operator as well as a typical more
// technical "error message" style message.
type consoleError struct {
	msg   string
	human string
	wrap  error
}

func (e *consoleError) Error() string {
	return e.msg
}

// ConsoleMessage shows the message that should be displayed at the console to
// describe the error.
func (e *consoleError) ConsoleMessage() string {
	return e.human
}

// Unwrap gives the error that the consoleError wraps, if it wraps one.
func (e *consoleError) Unwrap() error {
	return e.wrap
}

// Console returns a new error that has both the message to show the user and
// the technical description of the error.
func Console(human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got ConsoleError(%q)", human)
	}
	return &consoleError{
		msg:   technical,
		human: human,
	}
}

// Consolef returns a new error that has a message to show to the user and an
// automatically generated Error() description.
func Consolef(humanFormat string, a ...interface{}) error {
	return Console(fmt.Sprintf(humanFormat, a...), "")
}

// WrapConsole is like Console but the returned error wraps e.
func WrapConsole(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("%s: %s", human, e.Error())
	}
	return &consoleError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// Message gets the message to display to the console for the given error.
//
// For an error created by this package, that is its console message. For an
// error caused by a bad regex, it is the regex with a caret under the problem
// followed by the reason. Otherwise, err.Error() is returned.
func Message(err error) string {
	var conErr *consoleError
	if errors.As(err, &conErr) {
		return conErr.ConsoleMessage()
	}

	var synErr *regex.SyntaxError
	if errors.As(err, &synErr) {
		msg := synErr.Caret() + "\n" + synErr.Reason
		var patErr *lex.PatternError
		if errors.As(err, &patErr) {
			msg = fmt.Sprintf("in pattern %d (%s):\n%s", patErr.Index, patErr.Kind, msg)
		}
		return msg
	}

	return err.Error()
}
