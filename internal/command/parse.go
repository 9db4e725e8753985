package command

import (
	"strings"

	"github.com/dekarrin/tunalex/internal/tlerrors"
)

// Prefix marks a line of input as a command rather than text to lex.
const Prefix = ":"

// Verbs is every canonical verb along with a short description of what it
// does, for use in help output.
var Verbs = map[string]string{
	"HELP":  "show this help",
	"QUIT":  "leave the console",
	"TABLE": "show the DFA transition table",
	"LANG":  "show the language table",
	"MATCH": "show which kind of token all of the given text is",
	"LEX":   "lex the given text; any line not starting with ':' does this",
}

// VerbAliases maps shorthand verbs to their canonical forms. They are all
// uppercase.
var VerbAliases = map[string]string{
	"Q":        "QUIT",
	"EXIT":     "QUIT",
	"BYE":      "QUIT",
	"H":        "HELP",
	"?":        "HELP",
	"T":        "TABLE",
	"DFA":      "TABLE",
	"L":        "LANG",
	"LANGUAGE": "LANG",
	"M":        "MATCH",
}

// Parse parses a command from the given line. If it cannot, a non-nil error
// is returned whose console message explains why.
//
// A line that does not start with Prefix is a LEX command with the whole line
// as its argument. An empty line gives the zero value for Command and a nil
// error.
func Parse(line string) (Command, error) {
	if strings.TrimSpace(line) == "" {
		return Command{}, nil
	}

	if !strings.HasPrefix(line, Prefix) {
		return Command{Verb: "LEX", Arg: line}, nil
	}

	body := strings.TrimPrefix(line, Prefix)
	// "::" escapes a line that itself starts with the prefix
	if strings.HasPrefix(body, Prefix) {
		return Command{Verb: "LEX", Arg: body}, nil
	}

	fields := strings.Fields(body)
	if len(fields) < 1 {
		return Command{}, tlerrors.Consolef("Type %sHELP for the list of commands", Prefix)
	}

	verb := strings.ToUpper(fields[0])
	if canon, ok := VerbAliases[verb]; ok {
		verb = canon
	}
	if _, ok := Verbs[verb]; !ok {
		return Command{}, tlerrors.Consolef("I don't know the command %q", Prefix+fields[0])
	}

	cmd := Command{Verb: verb}
	cmd.Arg = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(body), fields[0]))

	switch verb {
	case "QUIT", "TABLE", "LANG":
		if cmd.Arg != "" {
			return Command{}, tlerrors.Consolef("%s%s does not take any arguments", Prefix, strings.ToLower(verb))
		}
	case "MATCH", "LEX":
		if cmd.Arg == "" {
			return Command{}, tlerrors.Consolef("%s%s needs some text to work on", Prefix, strings.ToLower(verb))
		}
	}

	return cmd, nil
}
