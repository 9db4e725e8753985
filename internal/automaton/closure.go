package automaton

import (
	"github.com/dekarrin/tunalex/internal/graph"
	"github.com/dekarrin/tunalex/internal/util"
)

// EpsilonClosure gives the set of nodes reachable from some node in X using
// zero or more ε-moves. Every node of X is in the result.
func EpsilonClosure(g *graph.Graph, X StateSet) StateSet {
	closure := X.Copy()

	var checking util.Stack[int]
	for _, s := range X.Elements() {
		checking.Push(s)
	}

	for !checking.Empty() {
		s := checking.Pop()

		for _, next := range g.Neighbours(s, graph.Epsilon) {
			if closure.Has(next) {
				continue
			}
			closure.Add(next)
			checking.Push(next)
		}
	}

	return closure
}

// Move returns the set of nodes reachable with exactly one transition on l
// from some node in X. Purple dragon book calls this function MOVE(T, a) and
// it is on page 153 as part of algorithm 3.20.
//
// Move panics if l is graph.Epsilon; use EpsilonClosure for ε-moves.
func Move(g *graph.Graph, X StateSet, l graph.Label) StateSet {
	if l.IsEpsilon() {
		panic("MOVE on epsilon label")
	}

	moves := StateSet{}
	for _, s := range X.Elements() {
		for _, next := range g.Neighbours(s, l) {
			moves.Add(next)
		}
	}
	return moves
}

// moveOnRune is Move over every label that consumes r; a plain literal and an
// escaped literal of the same rune match the same input.
func moveOnRune(g *graph.Graph, X StateSet, r rune) StateSet {
	moves := Move(g, X, graph.Literal(r))
	moves.AddAll(Move(g, X, graph.Escaped(r)))
	return moves
}
