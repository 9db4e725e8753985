package lex

import (
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/tunalex/internal/automaton"
)

// MarshalBinary converts the Lexer into a slice of bytes that can be decoded
// with UnmarshalBinary. Both the language table and the compiled DFA are
// included, so decoding does not need to recompile anything.
func (lx *Lexer) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(lx.lang.Name)...)

	data = append(data, rezi.EncInt(len(lx.lang.Patterns))...)
	for _, p := range lx.lang.Patterns {
		data = append(data, rezi.EncString(p.Regex)...)
		data = append(data, rezi.EncString(p.Kind)...)
	}

	data = append(data, rezi.EncInt(len(lx.lang.Skip))...)
	for _, s := range lx.lang.Skip {
		data = append(data, rezi.EncString(s)...)
	}

	data = append(data, rezi.EncBinary(lx.dfa)...)

	return data, nil
}

// UnmarshalBinary takes a slice of bytes created by MarshalBinary and sets
// the Lexer's properties to be the same as the encoded one.
func (lx *Lexer) UnmarshalBinary(data []byte) error {
	var lang Language
	var n int
	var err error

	lang.Name, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	data = data[n:]

	var numPatterns int
	numPatterns, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("pattern count: %w", err)
	}
	data = data[n:]
	if numPatterns < 0 || numPatterns > len(data)/2 {
		return fmt.Errorf("pattern count: %d is not possible with %d bytes left", numPatterns, len(data))
	}

	for i := 0; i < numPatterns; i++ {
		var p Pattern
		p.Regex, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("pattern %d: regex: %w", i, err)
		}
		data = data[n:]

		p.Kind, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("pattern %d: kind: %w", i, err)
		}
		data = data[n:]

		lang.Patterns = append(lang.Patterns, p)
	}

	var numSkip int
	numSkip, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("skip count: %w", err)
	}
	data = data[n:]
	if numSkip < 0 || numSkip > len(data) {
		return fmt.Errorf("skip count: %d is not possible with %d bytes left", numSkip, len(data))
	}

	for i := 0; i < numSkip; i++ {
		var s string
		s, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("skip %d: %w", i, err)
		}
		data = data[n:]
		lang.Skip = append(lang.Skip, s)
	}

	dfa := &automaton.DFA{}
	if _, err := rezi.DecBinary(data, dfa); err != nil {
		return fmt.Errorf("DFA: %w", err)
	}

	kinds := dfa.Kinds()
	if len(kinds) != len(lang.Patterns) {
		return fmt.Errorf("DFA has %d patterns but language has %d", len(kinds), len(lang.Patterns))
	}
	for i := range kinds {
		if kinds[i] != lang.Patterns[i].Kind {
			return fmt.Errorf("pattern %d: DFA kind %q does not match language kind %q", i, kinds[i], lang.Patterns[i].Kind)
		}
	}

	if err := lang.Validate(); err != nil {
		return err
	}

	*lx = *newLexer(lang, dfa)
	return nil
}
