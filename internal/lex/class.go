package lex

import "strings"

// TokenClass is the kind of a token as a lexer reports it.
type TokenClass interface {
	// ID returns the ID of the token class. The ID uniquely identifies the
	// class within a language.
	ID() string

	// Human returns a human-readable name for the token class, for use in
	// contexts such as error reporting.
	Human() string

	// Equal returns whether the TokenClass equals another. Two classes are
	// equal if they have the same ID.
	Equal(o any) bool
}

type simpleTokenClass string

func (class simpleTokenClass) ID() string {
	return strings.ToLower(string(class))
}

func (class simpleTokenClass) Human() string {
	return string(class)
}

func (class simpleTokenClass) Equal(o any) bool {
	return classEqual(class, o)
}

const (
	// TokenEndOfText is the class of the token returned once all input has
	// been consumed.
	TokenEndOfText = simpleTokenClass("$")

	// TokenError is the class of the token returned when no pattern matches
	// at the current position. Its lexeme is a message describing the
	// problem.
	TokenError = simpleTokenClass("<error>")
)

// patternClass is the TokenClass of tokens produced by a pattern in a
// Language. Its ID is derived from the kind so that kinds which differ only in
// case or spacing, like "END STATEMENT" and "end_statement", are the same
// class.
type patternClass struct {
	id   string
	kind string
}

func (pc patternClass) ID() string {
	return pc.id
}

func (pc patternClass) Human() string {
	return pc.kind
}

func (pc patternClass) Equal(o any) bool {
	return classEqual(pc, o)
}

// NewTokenClass returns the TokenClass that a Language pattern with the given
// kind produces.
func NewTokenClass(kind string) TokenClass {
	return patternClass{id: ClassID(kind), kind: kind}
}

// ClassID gives the ID that the TokenClass for kind will have.
func ClassID(kind string) string {
	return strings.Join(strings.Fields(strings.ToLower(kind)), "_")
}

func classEqual(class TokenClass, o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		otherPtr, ok := o.(*TokenClass)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return other.ID() == class.ID()
}
