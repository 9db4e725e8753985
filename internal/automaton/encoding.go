package automaton

import (
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/tunalex/internal/graph"
	"github.com/dekarrin/tunalex/internal/util"
)

// MarshalBinary converts the DFA into a slice of bytes that can be decoded
// with UnmarshalBinary. The NFA node sets of each state are not included.
func (dfa *DFA) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(dfa.start)...)

	data = append(data, rezi.EncInt(len(dfa.kinds))...)
	for _, k := range dfa.kinds {
		data = append(data, rezi.EncString(k)...)
	}

	data = append(data, rezi.EncInt(len(dfa.trans))...)
	for s := range dfa.trans {
		inputs := util.OrderedKeys(dfa.trans[s])
		data = append(data, rezi.EncInt(len(inputs))...)
		for _, r := range inputs {
			data = append(data, rezi.EncInt(int(r))...)
			data = append(data, rezi.EncInt(dfa.trans[s][r])...)
		}

		data = append(data, rezi.EncInt(len(dfa.tags[s]))...)
		for _, p := range dfa.tags[s] {
			data = append(data, rezi.EncInt(p)...)
		}
	}

	return data, nil
}

// UnmarshalBinary takes a slice of bytes created by MarshalBinary and sets
// the DFA's properties to be the same as the encoded one. The decoded DFA is
// checked with Validate before it is accepted.
func (dfa *DFA) UnmarshalBinary(data []byte) error {
	var decoded DFA
	var err error

	next := func(what string) int {
		if err != nil {
			return 0
		}
		var v, n int
		v, n, err = rezi.DecInt(data)
		if err != nil {
			err = fmt.Errorf("%s: %w", what, err)
			return 0
		}
		data = data[n:]
		return v
	}

	decoded.start = next("start state")

	// every encoded int or string takes at least one byte, so no count can
	// be larger than what is left of the input.
	count := func(what string, perItem int) int {
		c := next(what)
		if err == nil && (c < 0 || c > len(data)/perItem) {
			err = fmt.Errorf("%s: %d is not possible with %d bytes left", what, c, len(data))
		}
		return c
	}

	numKinds := count("kind count", 1)
	for i := 0; i < numKinds && err == nil; i++ {
		var k string
		var n int
		k, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("kind %d: %w", i, err)
		}
		data = data[n:]
		decoded.kinds = append(decoded.kinds, k)
	}

	// each state has at least a transition count and a tag count
	numStates := count("state count", 2)
	if err != nil {
		return err
	}

	decoded.g = graph.New(numStates)
	for i := 0; i < numStates && err == nil; i++ {
		decoded.g.AddNode()
	}

	for s := 0; s < numStates && err == nil; s++ {
		trans := map[rune]int{}
		numTrans := count(fmt.Sprintf("state %d: transition count", s), 2)
		for t := 0; t < numTrans && err == nil; t++ {
			r := rune(next(fmt.Sprintf("state %d: transition %d: input", s, t)))
			target := next(fmt.Sprintf("state %d: transition %d: target", s, t))
			if err != nil {
				break
			}
			if target < 0 || target >= numStates {
				return fmt.Errorf("state %d: transition %d: target %d out of range", s, t, target)
			}
			trans[r] = target
			decoded.g.AddEdge(s, target, graph.Literal(r))
		}

		var tags []int
		numTags := count(fmt.Sprintf("state %d: tag count", s), 1)
		for t := 0; t < numTags && err == nil; t++ {
			p := next(fmt.Sprintf("state %d: tag %d", s, t))
			if err == nil {
				tags = append(tags, p)
			}
		}

		decoded.trans = append(decoded.trans, trans)
		decoded.tags = append(decoded.tags, tags)
	}

	if err != nil {
		return err
	}

	if err := decoded.Validate(); err != nil {
		return fmt.Errorf("decoded DFA is invalid: %w", err)
	}

	*dfa = decoded
	return nil
}
