package command

import (
	"bufio"
	"fmt"

	"github.com/dekarrin/tunalex/internal/tlerrors"
)

// Get obtains a single command from input by reading from the provided
// Reader. It reads a line of input and attempts to parse it as a valid
// command, returning that command if it is successful. If it is not, error
// output is printed to the ostream and the input is read until a valid
// command is encountered.
func Get(cmdStream Reader, ostream *bufio.Writer) (Command, error) {
	for {
		input, err := cmdStream.ReadCommand()
		if err != nil {
			return Command{}, fmt.Errorf("could not get input: %w", err)
		}

		cmd, err := Parse(input)
		if err != nil {
			errMsg := fmt.Sprintf("%v\n", tlerrors.Message(err))
			if _, err := ostream.WriteString(errMsg); err != nil {
				return cmd, fmt.Errorf("could not write output: %w", err)
			}
			if err := ostream.Flush(); err != nil {
				return cmd, fmt.Errorf("could not flush output: %w", err)
			}
			continue
		}

		if cmd.Verb != "" {
			return cmd, nil
		}
	}
}
