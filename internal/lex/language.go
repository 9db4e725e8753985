package lex

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/tunalex/internal/util"
	"golang.org/x/crypto/blake2b"
)

var (
	// ErrNoPatterns is returned when compiling a Language with no patterns.
	ErrNoPatterns = errors.New("language has no patterns")

	// ErrInvalidLanguage is wrapped by errors for a Language whose table is
	// malformed apart from the regexes themselves.
	ErrInvalidLanguage = errors.New("invalid language")
)

// Pattern is one row of a language table: a regex and the kind of token that
// text matching it is lexed as.
type Pattern struct {
	Regex string `json:"regex"`
	Kind  string `json:"kind"`
}

// Language is an ordered table of patterns. When more than one pattern matches
// the longest lexeme at some position, the one that comes first in Patterns
// wins.
type Language struct {
	Name     string    `json:"name"`
	Patterns []Pattern `json:"patterns"`

	// Skip lists the kinds whose tokens are matched but never emitted, such
	// as whitespace and comments.
	Skip []string `json:"skip,omitempty"`
}

// DefaultLanguage returns the built-in language table: a small C-like
// language with types, return statements, brackets, integers, floats, and
// identifiers. Whitespace between tokens is skipped.
func DefaultLanguage() Language {
	return Language{
		Name: "default",
		Patterns: []Pattern{
			{Regex: `int|void`, Kind: "TYPE"},
			{Regex: `return`, Kind: "RETURN"},
			{Regex: `;`, Kind: "END STATEMENT"},
			{Regex: `[\(\){}\[\]]`, Kind: "BRACKETS"},
			{Regex: `[0-9]+`, Kind: "INTEGER"},
			{Regex: `[0-9]+.[0-9]+`, Kind: "FLOAT"},
			{Regex: `[a-zA-Z][a-zA-Z0-9]*`, Kind: "IDENTIFIER"},
			{Regex: "[ \t\r\n]+", Kind: "WHITESPACE"},
		},
		Skip: []string{"WHITESPACE"},
	}
}

// Validate checks the table itself: there is at least one pattern, every
// pattern has a regex and a kind, and every skipped kind belongs to some
// pattern. The regexes are not checked; Compile does that.
func (lang Language) Validate() error {
	if len(lang.Patterns) == 0 {
		return ErrNoPatterns
	}

	kinds := util.NewKeySet[string]()
	for i, p := range lang.Patterns {
		if p.Regex == "" {
			return fmt.Errorf("%w: pattern %d: regex is empty", ErrInvalidLanguage, i)
		}
		if strings.TrimSpace(p.Kind) == "" {
			return fmt.Errorf("%w: pattern %d (%q): kind is empty", ErrInvalidLanguage, i, p.Regex)
		}
		kinds.Add(ClassID(p.Kind))
	}

	for _, s := range lang.Skip {
		if !kinds.Has(ClassID(s)) {
			return fmt.Errorf("%w: skipped kind %q is not the kind of any pattern", ErrInvalidLanguage, s)
		}
	}

	return nil
}

// Skips returns whether tokens of the given kind are discarded by the lexer.
func (lang Language) Skips(kind string) bool {
	id := ClassID(kind)
	for _, s := range lang.Skip {
		if ClassID(s) == id {
			return true
		}
	}
	return false
}

// Hash returns a hex-encoded BLAKE2b-256 digest of the language table. Two
// languages with the same patterns in the same order and the same skipped
// kinds have the same hash regardless of name.
func (lang Language) Hash() string {
	h, _ := blake2b.New256(nil)

	for _, p := range lang.Patterns {
		writeField(h, p.Regex)
		writeField(h, p.Kind)
	}
	h.Write([]byte{0})
	for _, s := range lang.Skip {
		writeField(h, ClassID(s))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes s length-prefixed so that adjacent fields can't run into
// each other.
func writeField(w io.Writer, s string) {
	fmt.Fprintf(w, "%d:%s", len(s), s)
}

func (lang Language) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<LANGUAGE: %q, PATTERNS:", lang.Name))
	for i, p := range lang.Patterns {
		sb.WriteString(fmt.Sprintf("\n\t%d: %q => %s", i, p.Regex, p.Kind))
		if lang.Skips(p.Kind) {
			sb.WriteString(" (skip)")
		}
	}
	sb.WriteString("\n>")
	return sb.String()
}
