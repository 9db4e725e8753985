package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/tunalex/internal/graph"
	"github.com/dekarrin/tunalex/internal/util"
)

// DFA is a deterministic finite automaton produced from an NFA by subset
// construction. Every state has at most one transition per input rune. A
// state that contains the accepting node of one or more patterns is tagged
// with each of those pattern indexes.
//
// A DFA is read-only once built and is safe for concurrent use.
type DFA struct {
	start int

	// trans holds the outgoing transitions of each state.
	trans []map[rune]int

	// tags holds, for each state, the indexes of the patterns it accepts for
	// in ascending order. It is empty for non-accepting states.
	tags [][]int

	// kinds holds the token kind of each pattern, by pattern index.
	kinds []string

	// nfaStates holds the NFA nodes that make up each state. It is not
	// preserved by binary encoding.
	nfaStates [][]int

	g *graph.Graph
}

// SubsetConstruct converts nfa into an equivalent DFA. This is algorithm 3.20
// from the purple dragon book, "Subset Construction". States are discovered
// breadth first from the ε-closure of the input node, so state 0 is always
// the start state and numbering is deterministic for a given NFA.
//
// Two sets of NFA nodes become the same DFA state when they agree on every
// node that either consumes input or accepts. ε-only nodes in between do not
// change which strings are accepted from a set, so leaving them out of the
// key keeps the DFA from growing a separate state for every way a loop can be
// re-entered.
func SubsetConstruct(nfa *NFA) *DFA {
	g := nfa.g
	alphabet := nfa.Alphabet()

	dfa := &DFA{
		start: 0,
		kinds: nfa.Kinds(),
		g:     graph.New(0),
	}

	important := func(s StateSet) StateSet {
		imp := StateSet{}
		for _, n := range s.Elements() {
			if _, ok := nfa.accept[n]; ok || consumes(g, n) {
				imp.Add(n)
			}
		}
		return imp
	}

	ids := map[string]int{}
	var sets []StateSet

	addState := func(s StateSet) int {
		id := dfa.g.AddNode()
		ids[important(s).Key()] = id
		sets = append(sets, s)

		var tags []int
		for _, n := range s.Elements() {
			if p, ok := nfa.accept[n]; ok {
				tags = append(tags, p)
			}
		}
		sort.Ints(tags)

		dfa.trans = append(dfa.trans, map[rune]int{})
		dfa.tags = append(dfa.tags, tags)
		dfa.nfaStates = append(dfa.nfaStates, s.Elements())
		return id
	}

	var unmarked util.Queue[int]
	unmarked.Enqueue(addState(EpsilonClosure(g, NewStateSet(nfa.start))))

	for unmarked.Len() > 0 {
		T := unmarked.Dequeue()

		for _, a := range alphabet {
			moved := moveOnRune(g, sets[T], a)
			if moved.Empty() {
				continue
			}
			U := EpsilonClosure(g, moved)

			id, ok := ids[important(U).Key()]
			if !ok {
				id = addState(U)
				unmarked.Enqueue(id)
			}

			dfa.trans[T][a] = id
			dfa.g.AddEdge(T, id, graph.Literal(a))
		}
	}

	return dfa
}

// consumes returns whether node has an outgoing edge that consumes input.
func consumes(g *graph.Graph, node int) bool {
	for _, l := range g.OutLabels(node) {
		if !l.IsEpsilon() {
			return true
		}
	}
	return false
}

// Start returns the start state.
func (dfa *DFA) Start() int {
	return dfa.start
}

// NumStates returns the number of states in the DFA.
func (dfa *DFA) NumStates() int {
	return len(dfa.trans)
}

// Next returns the state reached from state on input r. ok is false if there
// is no such transition, in which case the automaton is stuck.
func (dfa *DFA) Next(state int, r rune) (next int, ok bool) {
	if state < 0 || state >= len(dfa.trans) {
		return 0, false
	}
	next, ok = dfa.trans[state][r]
	return next, ok
}

// Accepts returns the token kind that state accepts. When the state accepts
// for several patterns, the one declared first wins. ok is false if the state
// is not accepting.
func (dfa *DFA) Accepts(state int) (kind string, ok bool) {
	p, ok := dfa.AcceptingPattern(state)
	if !ok {
		return "", false
	}
	return dfa.kinds[p], true
}

// AcceptingPattern is like Accepts but returns the index of the winning
// pattern instead of its kind.
func (dfa *DFA) AcceptingPattern(state int) (pattern int, ok bool) {
	if state < 0 || state >= len(dfa.tags) || len(dfa.tags[state]) == 0 {
		return 0, false
	}
	return dfa.tags[state][0], true
}

// Tags returns the indexes of all patterns that state accepts for, in
// ascending order.
func (dfa *DFA) Tags(state int) []int {
	if state < 0 || state >= len(dfa.tags) || len(dfa.tags[state]) == 0 {
		return nil
	}
	tags := make([]int, len(dfa.tags[state]))
	copy(tags, dfa.tags[state])
	return tags
}

// Kinds returns the token kind of every pattern the DFA was built from, by
// pattern index.
func (dfa *DFA) Kinds() []string {
	kinds := make([]string, len(dfa.kinds))
	copy(kinds, dfa.kinds)
	return kinds
}

// NFAStates returns the NFA nodes that make up state. It is nil for a DFA
// that was decoded from binary.
func (dfa *DFA) NFAStates(state int) []int {
	if state < 0 || state >= len(dfa.nfaStates) {
		return nil
	}
	return dfa.nfaStates[state]
}

// Alphabet returns every rune that some transition consumes, in ascending
// order.
func (dfa *DFA) Alphabet() []rune {
	seen := util.NewKeySet[rune]()
	for _, t := range dfa.trans {
		for r := range t {
			seen.Add(r)
		}
	}
	runes := seen.Elements()
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

// Graph returns the DFA as a labeled graph whose nodes are the DFA states and
// whose edges are labeled with the literal rune of each transition. It must
// not be modified.
func (dfa *DFA) Graph() *graph.Graph {
	return dfa.g
}

// Match runs the DFA over all of s from the start state and returns the kind
// of token that s is, if any.
func (dfa *DFA) Match(s string) (kind string, ok bool) {
	state := dfa.start
	for _, r := range s {
		state, ok = dfa.Next(state, r)
		if !ok {
			return "", false
		}
	}
	return dfa.Accepts(state)
}

// Longest finds the longest prefix of rs[from:] that the DFA accepts. It
// returns the index just past the end of that prefix and the accepting state
// reached at it. ok is false if no non-empty prefix is accepted.
func (dfa *DFA) Longest(rs []rune, from int) (end int, state int, ok bool) {
	cur := dfa.start
	for i := from; i < len(rs); i++ {
		var moved bool
		cur, moved = dfa.Next(cur, rs[i])
		if !moved {
			break
		}
		if _, accepting := dfa.AcceptingPattern(cur); accepting {
			end, state, ok = i+1, cur, true
		}
	}
	return end, state, ok
}

// Validate checks that the DFA is well-formed: the start state exists, every
// transition leads to an existing state, every tag names a known pattern, and
// no state has more than one transition for the same rune in its graph.
func (dfa *DFA) Validate() error {
	n := len(dfa.trans)
	if n == 0 {
		return fmt.Errorf("DFA has no states")
	}
	if dfa.start < 0 || dfa.start >= n {
		return fmt.Errorf("start state %d does not exist", dfa.start)
	}
	if len(dfa.tags) != n {
		return fmt.Errorf("have tags for %d states but DFA has %d", len(dfa.tags), n)
	}

	for s := 0; s < n; s++ {
		for r, next := range dfa.trans[s] {
			if next < 0 || next >= n {
				return fmt.Errorf("state %d: transition on %q to non-existent state %d", s, r, next)
			}
		}
		for _, p := range dfa.tags[s] {
			if p < 0 || p >= len(dfa.kinds) {
				return fmt.Errorf("state %d: accepts for unknown pattern %d", s, p)
			}
		}

		if dfa.g != nil {
			for _, l := range dfa.g.OutLabels(s) {
				targets := dfa.g.Neighbours(s, l)
				if len(targets) > 1 {
					return fmt.Errorf("state %d: %d transitions on %q", s, len(targets), l.String())
				}
				count := 0
				for _, other := range dfa.g.Labels(s, targets[0]) {
					if other == l {
						count++
					}
				}
				if count > 1 {
					return fmt.Errorf("state %d: duplicate transition on %q", s, l.String())
				}
			}
		}
	}

	return nil
}

func (dfa *DFA) stateString(s int) string {
	var moves strings.Builder

	inputs := util.OrderedKeys(dfa.trans[s])

	for i, input := range inputs {
		moves.WriteString(fmt.Sprintf("=(%s)=> %d", graph.Literal(input), dfa.trans[s][input]))
		if i+1 < len(inputs) {
			moves.WriteRune(',')
			moves.WriteRune(' ')
		}
	}

	str := fmt.Sprintf("(%d [%s])", s, moves.String())

	if kind, ok := dfa.Accepts(s); ok {
		str = fmt.Sprintf("(%s %q)", str, kind)
	}

	return str
}

func (dfa *DFA) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %d, STATES:", dfa.start))

	for i := range dfa.trans {
		sb.WriteString("\n\t")
		sb.WriteString(dfa.stateString(i))

		if i+1 < len(dfa.trans) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')

	return sb.String()
}
