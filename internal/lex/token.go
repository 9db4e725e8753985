package lex

import "fmt"

// Token is a lexeme read from text combined with the token class it is as well
// as additional supplementary information gathered during lexing to inform
// error reporting.
type Token interface {
	// Class returns the TokenClass of the Token.
	Class() TokenClass

	// Lexeme returns the text that was lexed as the TokenClass of the Token, as
	// it appears in the source text. For a token of class TokenError, it is a
	// message describing the error.
	Lexeme() string

	// LinePos returns the 1-indexed character-of-line that the token starts
	// at in the source text.
	LinePos() int

	// Line returns the 1-indexed line number of the line that the token appears
	// on in the source text.
	Line() int

	// FullLine returns the full text of the line in source that the token
	// appears on, not including the line terminator.
	FullLine() string

	// String is the string representation.
	String() string
}

// TokenStream is a stream of tokens read from source text.
type TokenStream interface {
	// Next returns the next token in the stream and advances the stream by one
	// token.
	Next() Token

	// Peek returns the next token in the stream without advancing the stream.
	Peek() Token

	// HasNext returns whether the stream has any additional tokens.
	HasNext() bool
}

// implementation of Token interface for lex package use only
type lexerToken struct {
	class   TokenClass
	lexed   string
	linePos int
	lineNum int
	line    string
}

func (lt lexerToken) Class() TokenClass {
	return lt.class
}

func (lt lexerToken) Lexeme() string {
	return lt.lexed
}

func (lt lexerToken) LinePos() int {
	return lt.linePos
}

func (lt lexerToken) Line() int {
	return lt.lineNum
}

func (lt lexerToken) FullLine() string {
	return lt.line
}

func (lt lexerToken) String() string {
	return fmt.Sprintf("(%d:%d %s %q)", lt.lineNum, lt.linePos, lt.class.Human(), lt.lexed)
}
