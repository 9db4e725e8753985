// Package graph provides the labeled directed multigraph that both the NFA and
// the DFA of a compiled lexer are stored in.
//
// Nodes are dense integer identifiers handed out by AddNode in increasing
// order starting from 0. Nodes are never removed. Every edge carries a Label;
// the same ordered pair of nodes may be joined by any number of edges,
// including several with the same Label.
package graph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/tunalex/internal/util"
)

// Label is the value carried by an edge. It is either Epsilon, a single
// literal rune, or an escaped literal: a backslash followed by a single rune,
// used when a pattern escapes a metacharacter to mean itself.
type Label string

// Epsilon is the label of an edge that may be followed without consuming any
// input.
const Epsilon Label = ""

// Literal returns the Label for the literal rune r.
func Literal(r rune) Label {
	return Label(string(r))
}

// Escaped returns the escaped-literal Label for r.
func Escaped(r rune) Label {
	return Label("\\" + string(r))
}

// IsEpsilon returns whether l is the Epsilon label.
func (l Label) IsEpsilon() bool {
	return l == Epsilon
}

// IsEscaped returns whether l is an escaped literal.
func (l Label) IsEscaped() bool {
	return len(l) > 1 && l[0] == '\\'
}

// Rune returns the input rune that an edge with this label consumes. For an
// escaped literal this is the rune after the backslash. ok is false for
// Epsilon.
func (l Label) Rune() (r rune, ok bool) {
	if l.IsEpsilon() {
		return 0, false
	}
	s := string(l)
	if l.IsEscaped() {
		s = s[1:]
	}
	r, _ = utf8.DecodeRuneInString(s)
	return r, true
}

func (l Label) String() string {
	if l.IsEpsilon() {
		return "ε"
	}
	return string(l)
}

// Edge is a single labeled connection between two nodes.
type Edge struct {
	From  int
	To    int
	Label Label
}

func (e Edge) String() string {
	return fmt.Sprintf("%d =(%s)=> %d", e.From, e.Label, e.To)
}

// Graph is a directed multigraph with integer nodes and labeled edges. The
// zero value is an empty graph ready for use.
type Graph struct {
	size int

	// edges by source node, then by target node, gives the ordered labels of
	// every edge between the two.
	out []map[int][]Label
}

// New returns an empty Graph with room reserved for the given number of
// nodes. No nodes are allocated.
func New(capacity int) *Graph {
	return &Graph{out: make([]map[int][]Label, 0, capacity)}
}

// Size returns the number of nodes that have been allocated. Valid node IDs
// are in the range [0, Size()).
func (g *Graph) Size() int {
	return g.size
}

// AddNode allocates a new node and returns its ID.
func (g *Graph) AddNode() int {
	id := g.size
	g.size++
	g.out = append(g.out, nil)
	return id
}

// AddEdge adds an edge with the given label from source to target. Both nodes
// must have already been allocated with AddNode; AddEdge panics otherwise, as
// that can only happen due to a bug in whatever is building the graph.
func (g *Graph) AddEdge(source, target int, l Label) {
	if source < 0 || source >= g.size {
		panic(fmt.Sprintf("add edge from non-existent node %d (graph size %d)", source, g.size))
	}
	if target < 0 || target >= g.size {
		panic(fmt.Sprintf("add edge to non-existent node %d (graph size %d)", target, g.size))
	}

	if g.out[source] == nil {
		g.out[source] = map[int][]Label{}
	}
	g.out[source][target] = append(g.out[source][target], l)
}

// Labels returns the labels of every edge from source to target in the order
// they were added. Returns nil if there are none.
func (g *Graph) Labels(source, target int) []Label {
	if source < 0 || source >= g.size {
		return nil
	}
	labels := g.out[source][target]
	if labels == nil {
		return nil
	}
	copied := make([]Label, len(labels))
	copy(copied, labels)
	return copied
}

// Neighbours returns the IDs of all nodes reachable from node by a single
// edge carrying exactly the given label. The returned IDs are in ascending
// order and contain no duplicates.
func (g *Graph) Neighbours(node int, l Label) []int {
	if node < 0 || node >= g.size {
		return nil
	}

	var found []int
	for _, target := range util.OrderedKeys(g.out[node]) {
		for _, have := range g.out[node][target] {
			if have == l {
				found = append(found, target)
				break
			}
		}
	}
	return found
}

// OutLabels returns every distinct label on an edge leaving node.
func (g *Graph) OutLabels(node int) []Label {
	if node < 0 || node >= g.size {
		return nil
	}

	seen := util.KeySet[Label]{}
	for target := range g.out[node] {
		for _, l := range g.out[node][target] {
			seen.Add(l)
		}
	}
	return util.OrderedKeys(seen)
}

// Edges returns every edge in the graph, ordered by source, then target, then
// insertion order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for src := 0; src < g.size; src++ {
		for _, target := range util.OrderedKeys(g.out[src]) {
			for _, l := range g.out[src][target] {
				edges = append(edges, Edge{From: src, To: target, Label: l})
			}
		}
	}
	return edges
}

// Alphabet returns every distinct non-epsilon label used by an edge in the
// graph, in ascending order.
func (g *Graph) Alphabet() []Label {
	labels := util.KeySet[Label]{}
	for src := 0; src < g.size; src++ {
		for target := range g.out[src] {
			for _, l := range g.out[src][target] {
				if !l.IsEpsilon() {
					labels.Add(l)
				}
			}
		}
	}
	return util.OrderedKeys(labels)
}

func (g *Graph) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<NODES: %d, EDGES:", g.size))

	edges := g.Edges()
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
