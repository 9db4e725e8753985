/*
Tlex compiles a table of regular expressions into a lexer and uses it to split
text into tokens.

The language table is read from a TLEX language file, or the built-in default
language is used. With FILE arguments, each file is tokenized and the tokens
are printed as a table. Without them, an interactive session is started that
tokenizes each line that is typed in.

Usage:

	tlex [flags] [FILE...]

The flags are:

	--version
		Give the current version of tunalex and then exit.

	-l, --lang FILE
		Use the language table in the given TLEX language or manifest file.
		Defaults to the built-in language.

	-i, --in FILE
		Load a lexer that was previously compiled and written with --out
		instead of compiling one. Cannot be combined with --lang.

	-o, --out FILE
		Write the compiled lexer to FILE in binary form.

	-t, --table
		Print the transition table of the compiled DFA.

	-n, --nfa
		Print the edges of the NFA built from the language.

	-p, --print-lang
		Print the language table in TLEX file format.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty
		with stdin and stdout.

	-v, --verbose
		Log each step of compilation.

If any of --out, --table, --nfa, or --print-lang is given and there are no
FILE arguments, tlex exits after doing them instead of starting a session. A
FILE of "-" reads from stdin.

Exit status is 0 on success, 1 if any input contained text that no pattern
matches, and 2 if the lexer could not be built.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/tunalex"
	"github.com/dekarrin/tunalex/internal/lex"
	"github.com/dekarrin/tunalex/internal/tlerrors"
	"github.com/dekarrin/tunalex/internal/tlf"
	"github.com/dekarrin/tunalex/internal/version"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitLexError indicates that some input could not be tokenized.
	ExitLexError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// building the lexer.
	ExitInitError
)

const outputWidth = 80

var (
	returnCode    int = ExitSuccess
	flagVersion       = pflag.Bool("version", false, "Give the current version of tunalex and then exit.")
	flagLang          = pflag.StringP("lang", "l", "", "Use the language table in the given TLEX file.")
	flagIn            = pflag.StringP("in", "i", "", "Load a compiled lexer from the given file.")
	flagOut           = pflag.StringP("out", "o", "", "Write the compiled lexer to the given file.")
	flagTable         = pflag.BoolP("table", "t", false, "Print the DFA transition table.")
	flagNFA           = pflag.BoolP("nfa", "n", false, "Print the NFA edges.")
	flagPrintLang     = pflag.BoolP("print-lang", "p", false, "Print the language table in TLEX format.")
	flagDirect        = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline.")
	flagVerbose       = pflag.BoolP("verbose", "v", false, "Log each step of compilation.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	log, err := newLogger(*flagVerbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer log.Sync()

	lx, err := loadLexer(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", tlerrors.Message(err))
		returnCode = ExitInitError
		return
	}

	if err := doOutputs(lx, log); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", tlerrors.Message(err))
		returnCode = ExitInitError
		return
	}

	args := pflag.Args()
	if len(args) > 0 {
		for _, name := range args {
			ok, err := lexFile(lx, name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
				returnCode = ExitInitError
				return
			}
			if !ok {
				returnCode = ExitLexError
			}
		}
		return
	}

	if *flagOut != "" || *flagTable || *flagNFA || *flagPrintLang {
		return
	}

	eng, err := tunalex.New(lx, tunalex.Options{ForceDirect: *flagDirect, Log: log})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if err := eng.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitLexError
		return
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// loadLexer gets the lexer the flags ask for: decoded from --in, compiled
// from --lang, or compiled from the built-in language.
func loadLexer(log *zap.Logger) (*lex.Lexer, error) {
	if *flagIn != "" {
		if *flagLang != "" {
			return nil, fmt.Errorf("--in and --lang cannot be used together")
		}

		data, err := os.ReadFile(*flagIn)
		if err != nil {
			return nil, err
		}
		lx := &lex.Lexer{}
		if err := lx.UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("%s: %w", *flagIn, err)
		}
		log.Debug("loaded compiled lexer", zap.String("file", *flagIn), zap.Int("states", lx.DFA().NumStates()))
		return lx, nil
	}

	lang := lex.DefaultLanguage()
	if *flagLang != "" {
		var err error
		lang, err = tlf.LoadLanguage(*flagLang)
		if err != nil {
			return nil, err
		}
	}

	return lex.Compile(lang, lex.WithLogger(log))
}

// doOutputs performs --print-lang, --nfa, --table, and --out, in that order.
func doOutputs(lx *lex.Lexer, log *zap.Logger) error {
	if *flagPrintLang {
		data, err := tlf.MarshalLanguage(lx.Language())
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	}

	if *flagNFA {
		nfa, err := lex.BuildNFA(lx.Language(), lex.WithLogger(log))
		if err != nil {
			return err
		}
		fmt.Println(nfa.String())
	}

	if *flagTable {
		fmt.Println(lx.DFA().TransitionTable(outputWidth))
	}

	if *flagOut != "" {
		data, err := lx.MarshalBinary()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*flagOut, data, 0644); err != nil {
			return err
		}
		log.Debug("wrote compiled lexer", zap.String("file", *flagOut), zap.Int("bytes", len(data)))
	}

	return nil
}

// lexFile prints the token table for the named file. The returned bool is
// false if the file had any text that no pattern matched.
func lexFile(lx *lex.Lexer, name string) (bool, error) {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return false, err
		}
		defer f.Close()
		r = f
	}

	stream, err := lx.Lex(r)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	counting := &errorCountingStream{TokenStream: stream}

	fmt.Printf("%s:\n%s\n", name, tunalex.TokenTable(counting, outputWidth))
	return counting.errors == 0, nil
}

// errorCountingStream is a TokenStream that counts the error tokens that pass
// through it.
type errorCountingStream struct {
	lex.TokenStream
	errors int
}

func (s *errorCountingStream) Next() lex.Token {
	tok := s.TokenStream.Next()
	if tok.Class().Equal(lex.TokenError) {
		s.errors++
	}
	return tok
}
