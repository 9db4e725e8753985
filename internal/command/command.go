// Package command defines the commands that can be given at the tunalex
// console and handles parsing of them from input sources.
//
// A line of console input is either a command, which starts with a colon such
// as ":table", or text to be lexed.
package command

// Command is a valid line received from a console input source.
type Command struct {
	// Verb is the canonical name of the command being invoked, such as
	// "TABLE", "HELP", or "QUIT". Some verbs have shorthand forms that are
	// typed differently, for instance ":q" for ":quit"; those result in a
	// Command with the canonical verb. A line that is not a command has the
	// verb "LEX".
	Verb string

	// Arg is the rest of the line after the verb. For LEX it is the text to
	// be lexed, exactly as it was entered.
	Arg string
}

// Reader is a type that can be used for getting console input.
type Reader interface {
	// ReadCommand reads a single line of input. It will block until one is
	// ready. If there is an error or output is at end (EOF), the returned
	// string will be empty, otherwise it will always be non-empty.
	//
	// When error is io.EOF, string will always be empty. If EOF was
	// encountered on a call but some input was received, the input will be
	// returned and error will be nil, and the next call to ReadCommand will
	// return "", io.EOF.
	ReadCommand() (string, error)

	// Close performs any operations required to clean the resources created
	// by the Reader. It should be called at least once when the Reader is no
	// longer needed.
	Close() error
}
