package automaton

import (
	"fmt"
	"testing"

	"github.com/dekarrin/tunalex/internal/graph"
	"github.com/dekarrin/tunalex/internal/regex"
	"github.com/stretchr/testify/assert"
)

// rules makes one Rule per pattern, with kinds K0, K1, and so on.
func rules(patterns ...string) []Rule {
	rs := make([]Rule, len(patterns))
	for i, p := range patterns {
		rs[i] = Rule{Expr: regex.MustParse(p), Kind: fmt.Sprintf("K%d", i)}
	}
	return rs
}

func Test_Build_fragmentShapes(t *testing.T) {
	testCases := []struct {
		name   string
		expr   string
		expect []string
	}{
		{
			name: "literal",
			expr: "a",
			expect: []string{
				"0 =(ε)=> 2",
				"2 =(a)=> 1",
			},
		},
		{
			name: "escaped literal",
			expr: `\*`,
			expect: []string{
				"0 =(ε)=> 2",
				`2 =(\*)=> 1`,
			},
		},
		{
			name: "alternation shares both ends",
			expr: "a|b",
			expect: []string{
				"0 =(ε)=> 2",
				"0 =(ε)=> 3",
				"2 =(a)=> 1",
				"3 =(b)=> 1",
			},
		},
		{
			name: "group adds no nodes",
			expr: "(a)",
			expect: []string{
				"0 =(ε)=> 2",
				"2 =(a)=> 1",
			},
		},
		{
			name: "star",
			expr: "a*",
			expect: []string{
				"0 =(ε)=> 2",
				"2 =(ε)=> 1",
				"2 =(ε)=> 3",
				"3 =(a)=> 2",
			},
		},
		{
			name: "plus",
			expr: "a+",
			expect: []string{
				"0 =(ε)=> 2",
				"2 =(ε)=> 4",
				"3 =(ε)=> 1",
				"3 =(ε)=> 2",
				"4 =(a)=> 3",
			},
		},
		{
			name: "concatenation chains through fresh nodes",
			expr: "ab",
			expect: []string{
				"0 =(ε)=> 3",
				"2 =(ε)=> 4",
				"3 =(a)=> 2",
				"4 =(b)=> 1",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := graph.New(2)
			in, end := g.AddNode(), g.AddNode()
			Build(g, regex.MustParse(tc.expr), in, end)

			var actual []string
			for _, e := range g.Edges() {
				actual = append(actual, e.String())
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_NFA_AddPattern(t *testing.T) {
	assert := assert.New(t)

	nfa := CompileNFA(rules("a", "b"))

	assert.Equal(0, nfa.Start())
	assert.Equal(2, nfa.NumPatterns())
	assert.Equal([]string{"K0", "K1"}, nfa.Kinds())
	assert.Equal("K1", nfa.Kind(1))
	assert.Equal([]int{1, 3}, nfa.AcceptingNodes())

	p, ok := nfa.AcceptFor(3)
	assert.True(ok)
	assert.Equal(1, p)

	_, ok = nfa.AcceptFor(0)
	assert.False(ok)

	assert.Equal([]rune{'a', 'b'}, nfa.Alphabet())
}

func Test_NFA_Alphabet_includesEscapedRunes(t *testing.T) {
	assert := assert.New(t)

	nfa := CompileNFA(rules(`\[a\]`, `[x\(]`))

	assert.Equal([]rune{'(', '[', ']', 'a', 'x'}, nfa.Alphabet())
}

func Test_NFA_Simulate(t *testing.T) {
	testCases := []struct {
		name     string
		patterns []string
		input    string
		expect   []int
	}{
		{name: "single literal match", patterns: []string{"a"}, input: "a", expect: []int{0}},
		{name: "single literal no match", patterns: []string{"a"}, input: "b", expect: nil},
		{name: "empty input never matches", patterns: []string{"a+"}, input: "", expect: nil},
		{name: "star matches empty", patterns: []string{"a*"}, input: "", expect: []int{0}},
		{name: "both patterns match", patterns: []string{"int", "[a-z]+"}, input: "int", expect: []int{0, 1}},
		{name: "only second matches", patterns: []string{"int", "[a-z]+"}, input: "into", expect: []int{1}},
		{name: "escaped brackets", patterns: []string{`\[a\]`}, input: "[a]", expect: []int{0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			nfa := CompileNFA(rules(tc.patterns...))

			assert.Equal(tc.expect, nfa.Simulate(tc.input))
		})
	}
}

func Test_NFA_String(t *testing.T) {
	assert := assert.New(t)

	nfa := CompileNFA(rules("a"))

	expect := "<START: 0, ACCEPTING: [1:\"K0\"], EDGES:\n" +
		"\t0 =(ε)=> 2,\n" +
		"\t2 =(a)=> 1\n" +
		">"

	assert.Equal(expect, nfa.String())
}

func mustExpr(pattern string) regex.Node {
	return regex.MustParse(pattern)
}
