// Package automaton builds finite automata from parsed regular expressions. It
// holds the Thompson-style NFA construction, the ε-closure and move set
// operations, and the subset construction that turns an NFA recognizing an
// ordered list of patterns into a single DFA that tells which pattern a
// string matched.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/tunalex/internal/graph"
	"github.com/dekarrin/tunalex/internal/regex"
)

// Rule is one pattern to be recognized by an NFA along with the kind of token
// that it produces.
type Rule struct {
	Expr regex.Node
	Kind string
}

// NFA is a nondeterministic finite automaton with a single input node and one
// accepting node per pattern added to it. The patterns are numbered in the
// order they were added; that number is the pattern's priority, with lower
// numbers winning.
type NFA struct {
	g     *graph.Graph
	start int

	// accept maps an accepting node to the index of its pattern.
	accept map[int]int

	// kinds holds the token kind for each pattern index.
	kinds []string
}

// NewNFA returns an NFA with only an input node and no patterns. It accepts
// nothing until a pattern is added with AddPattern.
func NewNFA() *NFA {
	g := graph.New(1)
	return &NFA{
		g:      g,
		start:  g.AddNode(),
		accept: map[int]int{},
	}
}

// CompileNFA returns an NFA that recognizes every rule, in order. All rules
// share the input node.
func CompileNFA(rules []Rule) *NFA {
	nfa := NewNFA()
	for _, r := range rules {
		nfa.AddPattern(r.Expr, r.Kind)
	}
	return nfa
}

// AddPattern adds a fresh accepting node for expr and builds expr between the
// input node and it. The index of the new pattern is returned.
func (nfa *NFA) AddPattern(expr regex.Node, kind string) int {
	end := nfa.g.AddNode()
	Build(nfa.g, expr, nfa.start, end)

	idx := len(nfa.kinds)
	nfa.kinds = append(nfa.kinds, kind)
	nfa.accept[end] = idx
	return idx
}

// Start returns the input node of the NFA.
func (nfa *NFA) Start() int {
	return nfa.start
}

// Graph returns the underlying graph of the NFA. It must not be modified.
func (nfa *NFA) Graph() *graph.Graph {
	return nfa.g
}

// NumPatterns returns the number of patterns added to the NFA.
func (nfa *NFA) NumPatterns() int {
	return len(nfa.kinds)
}

// Kind returns the token kind of the pattern with the given index.
func (nfa *NFA) Kind(pattern int) string {
	return nfa.kinds[pattern]
}

// Kinds returns the token kinds of all patterns, by pattern index.
func (nfa *NFA) Kinds() []string {
	kinds := make([]string, len(nfa.kinds))
	copy(kinds, nfa.kinds)
	return kinds
}

// AcceptFor returns the pattern index that node accepts for, if it is an
// accepting node.
func (nfa *NFA) AcceptFor(node int) (pattern int, ok bool) {
	pattern, ok = nfa.accept[node]
	return pattern, ok
}

// AcceptingNodes returns the accepting nodes of the NFA in ascending order.
func (nfa *NFA) AcceptingNodes() []int {
	nodes := make([]int, 0, len(nfa.accept))
	for n := range nfa.accept {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes
}

// Alphabet returns every rune that some edge of the NFA consumes, in
// ascending order. A rune used only in escaped form is included.
func (nfa *NFA) Alphabet() []rune {
	seen := map[rune]bool{}
	var runes []rune
	for _, l := range nfa.g.Alphabet() {
		r, ok := l.Rune()
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

// Simulate runs the NFA directly over s and returns the index of every
// pattern that matches all of s, in ascending order.
func (nfa *NFA) Simulate(s string) []int {
	cur := EpsilonClosure(nfa.g, NewStateSet(nfa.start))
	for _, r := range s {
		cur = EpsilonClosure(nfa.g, moveOnRune(nfa.g, cur, r))
		if cur.Empty() {
			return nil
		}
	}

	var matched []int
	for _, n := range cur.Elements() {
		if p, ok := nfa.accept[n]; ok {
			matched = append(matched, p)
		}
	}
	sort.Ints(matched)
	return matched
}

func (nfa *NFA) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %d, ACCEPTING: [", nfa.start))
	for i, n := range nfa.AcceptingNodes() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%d:%q", n, nfa.kinds[nfa.accept[n]]))
	}
	sb.WriteString("], EDGES:")

	edges := nfa.g.Edges()
	for i := range edges {
		sb.WriteString("\n\t")
		sb.WriteString(edges[i].String())

		if i+1 < len(edges) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')

	return sb.String()
}

// Build adds the nodes and edges for expr to g such that every path from in to
// end that consumes a string matched by expr exists, and no others are
// introduced between the two nodes. Both in and end must already exist in g.
func Build(g *graph.Graph, expr regex.Node, in, end int) {
	switch n := expr.(type) {
	case regex.Literal:
		buildSymbol(g, n.Label(), in, end)
	case regex.EscapedLiteral:
		buildSymbol(g, n.Label(), in, end)
	case regex.Group:
		Build(g, n.Of, in, end)
	case regex.Alt:
		for _, b := range n.Branches {
			Build(g, b, in, end)
		}
	case regex.Concat:
		from := in
		for i, item := range n.Items {
			to := end
			if i+1 < len(n.Items) {
				to = g.AddNode()
			}
			Build(g, item, from, to)
			from = to
		}
	case regex.Star:
		loop := g.AddNode()
		g.AddEdge(in, loop, graph.Epsilon)
		g.AddEdge(loop, end, graph.Epsilon)
		Build(g, n.Of, loop, loop)
	case regex.Plus:
		a := g.AddNode()
		b := g.AddNode()
		g.AddEdge(in, a, graph.Epsilon)
		g.AddEdge(b, a, graph.Epsilon)
		g.AddEdge(b, end, graph.Epsilon)
		Build(g, n.Of, a, b)
	default:
		panic(fmt.Sprintf("unknown regex node type %T", expr))
	}
}

func buildSymbol(g *graph.Graph, l graph.Label, in, end int) {
	n := g.AddNode()
	g.AddEdge(in, n, graph.Epsilon)
	g.AddEdge(n, end, l)
}
