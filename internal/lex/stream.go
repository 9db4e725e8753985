package lex

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// scanStream is the TokenStream returned by a Lexer. It holds the whole of
// the input and drives the Lexer's DFA over it one token at a time.
type scanStream struct {
	lx *Lexer
	rs []rune

	// index into rs of the next rune to be read
	pos int

	// track these for placement in tokens, for later error reporting
	curLine   int
	curPos    int
	lineStart int

	// set to true when the stream has reached end of input, causing all
	// subsequent calls to Next() to return a Token with class TokenEndOfText
	// and all subsequent calls to HasNext() to return false.
	done bool
}

func (lx *Lexer) newStream(data []byte) *scanStream {
	return &scanStream{
		lx:      lx,
		rs:      []rune(string(norm.NFC.Bytes(data))),
		curLine: 1,
		curPos:  1,
	}
}

// Next returns the next token in the stream and advances the stream by one
// token. If at the end of the stream, this will return a token whose Class()
// is TokenEndOfText. If no pattern matches at the current position, it
// returns a token whose Class() is TokenError and whose lexeme is a message
// explaining the error, and the stream enters panic mode: runes are
// discarded until some pattern matches again.
func (s *scanStream) Next() Token {
	dfa := s.lx.dfa

	for {
		if s.done || s.pos >= len(s.rs) {
			s.done = true
			return s.makeToken(TokenEndOfText, "", s.curLine, s.curPos)
		}

		end, state, ok := dfa.Longest(s.rs, s.pos)
		if !ok {
			return s.panicMode()
		}
		pattern, _ := dfa.AcceptingPattern(state)

		line, linePos := s.curLine, s.curPos
		tok := s.makeToken(s.lx.classes[pattern], string(s.rs[s.pos:end]), line, linePos)
		s.advance(end)

		if s.lx.skip[pattern] {
			continue
		}
		return tok
	}
}

// panicMode discards runes from the current position until one is found that
// begins a match or the input runs out, and returns an error token covering
// the discarded text.
func (s *scanStream) panicMode() Token {
	line, linePos := s.curLine, s.curPos
	fullLine := s.fullLine()
	start := s.pos

	end := s.pos + 1
	for end < len(s.rs) {
		if _, _, ok := s.lx.dfa.Longest(s.rs, end); ok {
			break
		}
		end++
	}
	s.advance(end)

	tok := lexerToken{
		class:   TokenError,
		lexed:   fmt.Sprintf("unrecognized input %q", string(s.rs[start:end])),
		lineNum: line,
		linePos: linePos,
		line:    fullLine,
	}
	return tok
}

// Peek returns the next token in the stream without advancing the stream.
func (s *scanStream) Peek() Token {
	saved := *s
	tok := s.Next()
	*s = saved
	return tok
}

// HasNext returns whether the stream has any additional tokens.
func (s *scanStream) HasNext() bool {
	return !s.done
}

// advance moves the stream forward to rs[to], updating the line tracking.
func (s *scanStream) advance(to int) {
	for ; s.pos < to; s.pos++ {
		if s.rs[s.pos] == '\n' {
			s.curLine++
			s.curPos = 1
			s.lineStart = s.pos + 1
		} else {
			s.curPos++
		}
	}
}

// fullLine returns the text of the line that the stream is currently on.
func (s *scanStream) fullLine() string {
	end := s.lineStart
	for end < len(s.rs) && s.rs[end] != '\n' {
		end++
	}
	return strings.TrimSuffix(string(s.rs[s.lineStart:end]), "\r")
}

func (s *scanStream) makeToken(class TokenClass, lexeme string, line, linePos int) Token {
	return lexerToken{
		class:   class,
		lexed:   lexeme,
		lineNum: line,
		linePos: linePos,
		line:    s.fullLine(),
	}
}
