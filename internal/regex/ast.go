package regex

import (
	"strings"

	"github.com/dekarrin/tunalex/internal/graph"
)

// Node is a node of a parsed regular expression tree. It is one of Literal,
// EscapedLiteral, Concat, Alt, Star, Plus, or Group.
type Node interface {
	// String gives the node back as pattern text that would parse to an
	// equivalent tree.
	String() string

	isNode()
}

// Literal matches exactly one occurrence of its rune.
type Literal struct {
	R rune
}

// EscapedLiteral matches exactly one occurrence of its rune, which appeared
// in the pattern escaped with a backslash.
type EscapedLiteral struct {
	R rune
}

// Concat matches each of its items in sequence. It always has at least two
// items.
type Concat struct {
	Items []Node
}

// Alt matches any one of its branches. It always has at least two branches.
type Alt struct {
	Branches []Node
}

// Star matches zero or more repetitions of its operand.
type Star struct {
	Of Node
}

// Plus matches one or more repetitions of its operand.
type Plus struct {
	Of Node
}

// Group is a parenthesized subexpression.
type Group struct {
	Of Node
}

func (Literal) isNode()        {}
func (EscapedLiteral) isNode() {}
func (Concat) isNode()         {}
func (Alt) isNode()            {}
func (Star) isNode()           {}
func (Plus) isNode()           {}
func (Group) isNode()          {}

func (n Literal) String() string        { return string(n.R) }
func (n EscapedLiteral) String() string { return "\\" + string(n.R) }
func (n Star) String() string           { return n.Of.String() + "*" }
func (n Plus) String() string           { return n.Of.String() + "+" }
func (n Group) String() string          { return "(" + n.Of.String() + ")" }

func (n Concat) String() string {
	var sb strings.Builder
	for _, item := range n.Items {
		sb.WriteString(item.String())
	}
	return sb.String()
}

func (n Alt) String() string {
	strs := make([]string, len(n.Branches))
	for i := range n.Branches {
		strs[i] = n.Branches[i].String()
	}
	return strings.Join(strs, "|")
}

// Label gives the graph edge label that an NFA uses to match n.
func (n Literal) Label() graph.Label {
	return graph.Literal(n.R)
}

// Label gives the graph edge label that an NFA uses to match n.
func (n EscapedLiteral) Label() graph.Label {
	return graph.Escaped(n.R)
}
