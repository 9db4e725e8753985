// Package lex compiles language tables into lexers and runs them over text.
//
// A Language is an ordered list of regex patterns, each naming the kind of
// token it produces. Compile turns the whole table into a single DFA; the
// Lexer then scans input with maximal munch, so the longest lexeme that any
// pattern matches is taken at each position, and when several patterns match
// that lexeme the one declared first wins.
package lex

import (
	"errors"
	"fmt"
	"io"

	"github.com/dekarrin/tunalex/internal/automaton"
	"github.com/dekarrin/tunalex/internal/regex"
	"go.uber.org/zap"
)

// PatternError is returned by Compile when one of the patterns in a Language
// cannot be compiled. It wraps the underlying error, which for a malformed
// regex is a *regex.SyntaxError.
type PatternError struct {
	Index int
	Kind  string
	Err   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %d (%s): %s", e.Index, e.Kind, e.Err.Error())
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// SyntaxError returns the regex syntax error that caused e, if there is one.
func (e *PatternError) SyntaxError() (*regex.SyntaxError, bool) {
	var synErr *regex.SyntaxError
	if errors.As(e.Err, &synErr) {
		return synErr, true
	}
	return nil, false
}

// Option modifies how Compile builds a Lexer.
type Option func(*compileOptions)

type compileOptions struct {
	log      *zap.Logger
	maxDepth int
}

// WithLogger has Compile log the steps of building the automata to log at
// debug level.
func WithLogger(log *zap.Logger) Option {
	return func(o *compileOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMaxDepth sets how deeply groups and classes may nest in a pattern
// before it is rejected. The default is regex.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *compileOptions) {
		o.maxDepth = depth
	}
}

// Lexer is a compiled Language. It is read-only once compiled and may be used
// by several goroutines at once.
type Lexer struct {
	lang    Language
	dfa     *automaton.DFA
	classes []TokenClass
	skip    []bool
	hash    string

	nfaSize int
}

// Compile builds a Lexer for lang. Every pattern is parsed, all of them are
// built into one NFA that shares an input node, and the NFA is converted into
// a DFA by subset construction. If any pattern cannot be compiled, a
// *PatternError is returned and no Lexer is produced.
func Compile(lang Language, opts ...Option) (*Lexer, error) {
	o := compileOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.With(zap.String("language", lang.Name))

	nfa, err := buildNFA(lang, o, log)
	if err != nil {
		return nil, err
	}

	dfa := automaton.SubsetConstruct(nfa)
	log.Debug("built DFA", zap.Int("states", dfa.NumStates()))

	lx := newLexer(lang, dfa)
	lx.nfaSize = nfa.Graph().Size()
	return lx, nil
}

// BuildNFA does the first half of Compile, stopping once the NFA for lang is
// built. It is mostly useful for inspecting how patterns were translated.
func BuildNFA(lang Language, opts ...Option) (*automaton.NFA, error) {
	o := compileOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return buildNFA(lang, o, o.log.With(zap.String("language", lang.Name)))
}

func buildNFA(lang Language, o compileOptions, log *zap.Logger) (*automaton.NFA, error) {
	if err := lang.Validate(); err != nil {
		return nil, err
	}

	p := regex.Parser{MaxDepth: o.maxDepth}

	rules := make([]automaton.Rule, len(lang.Patterns))
	for i, pat := range lang.Patterns {
		expr, err := p.Parse(pat.Regex)
		if err != nil {
			return nil, &PatternError{Index: i, Kind: pat.Kind, Err: err}
		}
		rules[i] = automaton.Rule{Expr: expr, Kind: pat.Kind}
		log.Debug("parsed pattern", zap.Int("index", i), zap.String("kind", pat.Kind), zap.Stringer("expr", expr))
	}

	nfa := automaton.CompileNFA(rules)
	log.Debug("built NFA", zap.Int("nodes", nfa.Graph().Size()), zap.Int("symbols", len(nfa.Alphabet())))
	return nfa, nil
}

// MustCompile is like Compile but panics if the Language cannot be compiled.
func MustCompile(lang Language, opts ...Option) *Lexer {
	lx, err := Compile(lang, opts...)
	if err != nil {
		panic(err.Error())
	}
	return lx
}

func newLexer(lang Language, dfa *automaton.DFA) *Lexer {
	lx := &Lexer{
		lang:    lang,
		dfa:     dfa,
		classes: make([]TokenClass, len(lang.Patterns)),
		skip:    make([]bool, len(lang.Patterns)),
		hash:    lang.Hash(),
	}
	for i, p := range lang.Patterns {
		lx.classes[i] = NewTokenClass(p.Kind)
		lx.skip[i] = lang.Skips(p.Kind)
	}
	return lx
}

// Language returns the language table that the Lexer was compiled from.
func (lx *Lexer) Language() Language {
	lang := lx.lang
	lang.Patterns = append([]Pattern(nil), lx.lang.Patterns...)
	lang.Skip = append([]string(nil), lx.lang.Skip...)
	return lang
}

// DFA returns the automaton that drives the Lexer.
func (lx *Lexer) DFA() *automaton.DFA {
	return lx.dfa
}

// Hash returns the hash of the language table the Lexer was compiled from.
// See Language.Hash.
func (lx *Lexer) Hash() string {
	return lx.hash
}

// NFASize returns the number of nodes in the NFA that the Lexer was built
// from. It is 0 for a Lexer that was decoded from binary.
func (lx *Lexer) NFASize() int {
	return lx.nfaSize
}

// Classes returns the token class of each pattern, by pattern index.
func (lx *Lexer) Classes() []TokenClass {
	return append([]TokenClass(nil), lx.classes...)
}

// Lex reads all of input and returns a stream of the tokens in it. Tokens of
// skipped kinds are left out of the stream.
func (lx *Lexer) Lex(input io.Reader) (TokenStream, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lx.newStream(data), nil
}

// LexAll is a convenience for lexing all of s at once. It returns every token
// up to but not including the end of text. If the input contains text that no
// pattern matches, the tokens read so far are returned along with an error
// describing the first such position.
func (lx *Lexer) LexAll(s string) ([]Token, error) {
	stream := lx.newStream([]byte(s))

	var toks []Token
	for stream.HasNext() {
		tok := stream.Next()
		if tok.Class().Equal(TokenEndOfText) {
			break
		}
		if tok.Class().Equal(TokenError) {
			return toks, &UnmatchedError{Line: tok.Line(), Pos: tok.LinePos(), FullLine: tok.FullLine(), Msg: tok.Lexeme()}
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// UnmatchedError is returned by LexAll for input that no pattern matches.
type UnmatchedError struct {
	Line     int
	Pos      int
	FullLine string
	Msg      string
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("line %d, char %d: %s", e.Line, e.Pos, e.Msg)
}
