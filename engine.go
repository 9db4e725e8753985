// Package tunalex contains a CLI-driven engine that reads lines of text from
// a console and shows how a compiled lexer tokenizes them until the user
// quits.
package tunalex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunalex/internal/command"
	"github.com/dekarrin/tunalex/internal/input"
	"github.com/dekarrin/tunalex/internal/lex"
	"github.com/dekarrin/tunalex/internal/tlerrors"
	"go.uber.org/zap"
)

// Engine contains the things needed to run a lexer from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	lx          *lex.Lexer
	in          command.Reader
	out         *bufio.Writer
	log         *zap.Logger
	forceDirect bool
	running     bool
}

// Options configures a new Engine. The zero value gives an Engine that reads
// from stdin and writes to stdout.
type Options struct {
	// Input is the stream lines are read from. Defaults to os.Stdin.
	Input io.Reader

	// Output is where results are written. Defaults to os.Stdout.
	Output io.Writer

	// ForceDirect disables readline even when attached to a terminal.
	ForceDirect bool

	// HistoryFile is where readline keeps history. Unused in direct mode.
	HistoryFile string

	// Log receives debug information about each line. Defaults to a no-op
	// logger.
	Log *zap.Logger
}

const consoleOutputWidth = 80

// New creates a new engine that runs lx on lines read from the configured
// input. It will immediately open a buffered writer on the output stream.
// Readline is used only when the engine is attached to both stdin and stdout.
func New(lx *lex.Lexer, opts Options) (*Engine, error) {
	if lx == nil {
		return nil, fmt.Errorf("lexer must not be nil")
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	eng := &Engine{
		lx:          lx,
		out:         bufio.NewWriter(opts.Output),
		log:         opts.Log,
		forceDirect: opts.ForceDirect,
	}

	useReadline := !opts.ForceDirect && opts.Input == os.Stdin && opts.Output == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader(opts.HistoryFile)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(opts.Input)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading lines from the streams and lexing them until
// the QUIT command is received or input runs out.
func (eng *Engine) RunUntilQuit() error {
	lang := eng.lx.Language()

	introMsg := "tunalex console\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "===============\n"
	introMsg += fmt.Sprintf("Language %q: %d patterns, %d DFA states over %d input runes\n", lang.Name, len(lang.Patterns), eng.lx.DFA().NumStates(), len(eng.lx.DFA().Alphabet()))
	introMsg += fmt.Sprintf("Type text to lex it, or %sHELP for commands\n", command.Prefix)

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == "QUIT" {
			eng.running = false
			break
		}

		output, err := eng.Execute(cmd)
		if err != nil {
			output = rosed.Edit(tlerrors.Message(err)).Wrap(consoleOutputWidth).String()
		}
		if err := eng.write(output + "\n"); err != nil {
			return err
		}
	}

	return eng.write("Goodbye\n")
}

// Execute carries out a single command and returns the text to show for it.
// QUIT is not handled here as it is up to the caller to stop.
func (eng *Engine) Execute(cmd command.Command) (string, error) {
	eng.log.Debug("executing command", zap.String("verb", cmd.Verb), zap.String("arg", cmd.Arg))

	switch cmd.Verb {
	case "LEX":
		return eng.lexLine(cmd.Arg)
	case "MATCH":
		kind, ok := eng.lx.DFA().Match(cmd.Arg)
		if !ok {
			return "", tlerrors.Consolef("%q is not a single token", cmd.Arg)
		}
		return fmt.Sprintf("%q is %s", cmd.Arg, kind), nil
	case "TABLE":
		return eng.lx.DFA().TransitionTable(consoleOutputWidth), nil
	case "LANG":
		return LanguageTable(eng.lx, consoleOutputWidth), nil
	case "HELP":
		return helpText(cmd.Arg)
	default:
		return "", tlerrors.Consolef("%s%s can't be used here", command.Prefix, strings.ToLower(cmd.Verb))
	}
}

func (eng *Engine) lexLine(line string) (string, error) {
	stream, err := eng.lx.Lex(strings.NewReader(line))
	if err != nil {
		return "", err
	}
	return TokenTable(stream, consoleOutputWidth), nil
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// TokenTable reads every token from stream and renders them as a text table
// wrapped to width columns. The end-of-text token is not included.
func TokenTable(stream lex.TokenStream, width int) string {
	data := [][]string{{"LINE:CHAR", "KIND", "LEXEME"}}

	for stream.HasNext() {
		tok := stream.Next()
		if tok.Class().Equal(lex.TokenEndOfText) {
			break
		}

		kind := tok.Class().Human()
		if tok.Class().Equal(lex.TokenError) {
			kind = "ERROR"
		}
		data = append(data, []string{
			fmt.Sprintf("%d:%d", tok.Line(), tok.LinePos()),
			kind,
			fmt.Sprintf("%q", tok.Lexeme()),
		})
	}

	if len(data) == 1 {
		return "(no tokens)"
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// LanguageTable renders the language of lx as a text table of its patterns in
// priority order, wrapped to width columns.
func LanguageTable(lx *lex.Lexer, width int) string {
	lang := lx.Language()
	classes := lx.Classes()

	data := [][]string{{"#", "KIND", "CLASS", "REGEX", "SKIP"}}
	for i, p := range lang.Patterns {
		skip := ""
		if lang.Skips(p.Kind) {
			skip = "yes"
		}
		data = append(data, []string{fmt.Sprintf("%d", i), p.Kind, classes[i].ID(), fmt.Sprintf("%q", p.Regex), skip})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func helpText(topic string) (string, error) {
	if topic != "" {
		verb := strings.ToUpper(strings.TrimPrefix(topic, command.Prefix))
		if canon, ok := command.VerbAliases[verb]; ok {
			verb = canon
		}
		desc, ok := command.Verbs[verb]
		if !ok {
			return "", tlerrors.Consolef("There is no command %q", topic)
		}
		return fmt.Sprintf("%s%s: %s", command.Prefix, strings.ToLower(verb), desc), nil
	}

	verbs := make([]string, 0, len(command.Verbs))
	for v := range command.Verbs {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)

	data := [][]string{{"COMMAND", "DESCRIPTION"}}
	for _, v := range verbs {
		data = append(data, []string{command.Prefix + strings.ToLower(v), command.Verbs[v]})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, consoleOutputWidth, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String(), nil
}
