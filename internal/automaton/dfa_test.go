package automaton

import (
	"testing"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/tunalex/internal/graph"
	"github.com/stretchr/testify/assert"
)

func dfaFor(patterns ...string) *DFA {
	return SubsetConstruct(CompileNFA(rules(patterns...)))
}

func Test_SubsetConstruct_shapes(t *testing.T) {
	type trans struct {
		from  int
		input rune
		to    int
	}

	testCases := []struct {
		name      string
		patterns  []string
		states    int
		trans     []trans
		accepting []int
	}{
		{
			name:      "alternation of two literals",
			patterns:  []string{"a|b"},
			states:    2,
			trans:     []trans{{0, 'a', 1}, {0, 'b', 1}},
			accepting: []int{1},
		},
		{
			name:      "star is one accepting state with a self-loop",
			patterns:  []string{"a*"},
			states:    1,
			trans:     []trans{{0, 'a', 0}},
			accepting: []int{0},
		},
		{
			name:      "plus",
			patterns:  []string{"a+"},
			states:    2,
			trans:     []trans{{0, 'a', 1}, {1, 'a', 1}},
			accepting: []int{1},
		},
		{
			name:      "class expands to alternation",
			patterns:  []string{"[a-c]"},
			states:    2,
			trans:     []trans{{0, 'a', 1}, {0, 'b', 1}, {0, 'c', 1}},
			accepting: []int{1},
		},
		{
			name:      "escaped brackets consume the bracket runes",
			patterns:  []string{`\[a\]`},
			states:    4,
			trans:     []trans{{0, '[', 1}, {1, 'a', 2}, {2, ']', 3}},
			accepting: []int{3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dfa := dfaFor(tc.patterns...)

			assert.NoError(dfa.Validate())
			assert.Equal(0, dfa.Start())
			assert.Equal(tc.states, dfa.NumStates())

			total := 0
			for s := 0; s < dfa.NumStates(); s++ {
				total += len(dfa.trans[s])
			}
			assert.Equal(len(tc.trans), total, "wrong number of transitions")

			for _, tr := range tc.trans {
				next, ok := dfa.Next(tr.from, tr.input)
				if assert.True(ok, "missing transition %d on %q", tr.from, tr.input) {
					assert.Equal(tr.to, next, "transition %d on %q", tr.from, tr.input)
				}
			}

			var accepting []int
			for s := 0; s < dfa.NumStates(); s++ {
				if _, ok := dfa.Accepts(s); ok {
					accepting = append(accepting, s)
				}
			}
			assert.Equal(tc.accepting, accepting)
		})
	}
}

func Test_SubsetConstruct_digitsPlus(t *testing.T) {
	assert := assert.New(t)

	dfa := dfaFor("[0-9]+")

	assert.Equal(2, dfa.NumStates())
	for r := '0'; r <= '9'; r++ {
		next, ok := dfa.Next(0, r)
		assert.True(ok)
		assert.Equal(1, next)

		next, ok = dfa.Next(1, r)
		assert.True(ok)
		assert.Equal(1, next)
	}
	_, ok := dfa.Next(0, 'a')
	assert.False(ok)
}

func Test_DFA_priority(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		expectKind string
		expectOK   bool
		expectTags []int
	}{
		{name: "keyword beats identifier", input: "int", expectKind: "TYPE", expectOK: true, expectTags: []int{0, 2}},
		{name: "second keyword alternative", input: "void", expectKind: "TYPE", expectOK: true, expectTags: []int{0, 2}},
		{name: "return keyword", input: "return", expectKind: "RETURN", expectOK: true, expectTags: []int{1, 2}},
		{name: "keyword prefix is identifier", input: "in", expectKind: "IDENTIFIER", expectOK: true, expectTags: []int{2}},
		{name: "keyword extension is identifier", input: "integer", expectKind: "IDENTIFIER", expectOK: true, expectTags: []int{2}},
		{name: "identifier with digits", input: "x1", expectKind: "IDENTIFIER", expectOK: true, expectTags: []int{2}},
		{name: "leading digit is no token", input: "1x", expectOK: false},
		{name: "empty string", input: "", expectOK: false},
	}

	dfa := SubsetConstruct(CompileNFA([]Rule{
		{Expr: mustExpr("int|void"), Kind: "TYPE"},
		{Expr: mustExpr("return"), Kind: "RETURN"},
		{Expr: mustExpr("[a-zA-Z][a-zA-Z0-9]*"), Kind: "IDENTIFIER"},
	}))

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			kind, ok := dfa.Match(tc.input)

			assert.Equal(tc.expectOK, ok)
			assert.Equal(tc.expectKind, kind)

			if tc.expectOK {
				state := dfa.Start()
				for _, r := range tc.input {
					state, _ = dfa.Next(state, r)
				}
				assert.Equal(tc.expectTags, dfa.Tags(state))
			}
		})
	}
}

func Test_DFA_priority_declarationOrder(t *testing.T) {
	testCases := []struct {
		name       string
		rules      []Rule
		expectKind string
		expectTags []int
	}{
		{
			name: "keyword first",
			rules: []Rule{
				{Expr: mustExpr("int"), Kind: "TYPE"},
				{Expr: mustExpr("[a-z]+"), Kind: "WORD"},
			},
			expectKind: "TYPE",
			expectTags: []int{0, 1},
		},
		{
			name: "general pattern first",
			rules: []Rule{
				{Expr: mustExpr("[a-z]+"), Kind: "WORD"},
				{Expr: mustExpr("int"), Kind: "TYPE"},
			},
			expectKind: "WORD",
			expectTags: []int{0, 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dfa := SubsetConstruct(CompileNFA(tc.rules))

			kind, ok := dfa.Match("int")
			assert.True(ok)
			assert.Equal(tc.expectKind, kind)

			state := dfa.Start()
			for _, r := range "int" {
				state, _ = dfa.Next(state, r)
			}
			assert.Equal(tc.expectTags, dfa.Tags(state))
		})
	}
}

func Test_DFA_matchesNFA(t *testing.T) {
	patterns := []string{
		"int|void",
		"return",
		";",
		`[\(\){}\[\]]`,
		"[0-9]+",
		"[0-9]+.[0-9]+",
		"[a-zA-Z][a-zA-Z0-9]*",
		"(ab|a)*c+",
	}
	inputs := []string{
		"", "int", "void", "voi", "return", ";", "(", ")", "{", "}", "[", "]",
		"0", "42", "3.14", "3.", ".5", "3.1.4", "x", "abc123", "_x",
		"c", "ac", "abac", "abacc", "abbc", "aab", "aabc",
	}

	nfa := CompileNFA(rules(patterns...))
	dfa := SubsetConstruct(nfa)

	assert.NoError(t, dfa.Validate())

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert := assert.New(t)

			expect := nfa.Simulate(in)

			state, ok := dfa.Start(), true
			for _, r := range in {
				state, ok = dfa.Next(state, r)
				if !ok {
					break
				}
			}

			if !ok {
				assert.Nil(expect)
				return
			}
			assert.Equal(expect, dfa.Tags(state))
		})
	}
}

func Test_DFA_deterministic(t *testing.T) {
	assert := assert.New(t)

	dfa := dfaFor("int|void", "[a-z]+", `\(|\)`, "[0-9]+.[0-9]+")

	assert.NoError(dfa.Validate())

	g := dfa.Graph()
	assert.Equal(dfa.NumStates(), g.Size())
	for s := 0; s < g.Size(); s++ {
		for _, l := range g.OutLabels(s) {
			assert.False(l.IsEpsilon())
			assert.Len(g.Neighbours(s, l), 1)
		}
	}

	// same table gives the same numbering
	assert.Equal(dfa.String(), dfaFor("int|void", "[a-z]+", `\(|\)`, "[0-9]+.[0-9]+").String())
}

func Test_DFA_Longest(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		from      int
		expectEnd int
		expectOK  bool
		kind      string
	}{
		{name: "float is longest", input: "123.45x", expectEnd: 6, expectOK: true, kind: "FLOAT"},
		{name: "falls back to last accepted", input: "123.x", expectEnd: 3, expectOK: true, kind: "INTEGER"},
		{name: "from offset", input: "ab12", from: 2, expectEnd: 4, expectOK: true, kind: "INTEGER"},
		{name: "nothing accepted", input: "x", expectOK: false},
		{name: "at end", input: "12", from: 2, expectOK: false},
	}

	dfa := SubsetConstruct(CompileNFA([]Rule{
		{Expr: mustExpr("[0-9]+"), Kind: "INTEGER"},
		{Expr: mustExpr("[0-9]+.[0-9]+"), Kind: "FLOAT"},
	}))

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			end, state, ok := dfa.Longest([]rune(tc.input), tc.from)

			assert.Equal(tc.expectOK, ok)
			if !tc.expectOK {
				return
			}
			assert.Equal(tc.expectEnd, end)

			kind, _ := dfa.Accepts(state)
			assert.Equal(tc.kind, kind)
		})
	}
}

func Test_DFA_Alphabet(t *testing.T) {
	assert := assert.New(t)

	dfa := dfaFor("ab*", `c\*`)

	assert.Equal([]rune{'*', 'a', 'b', 'c'}, dfa.Alphabet())
}

func Test_DFA_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		dfa       *DFA
		expectErr bool
	}{
		{
			name:      "no states",
			dfa:       &DFA{},
			expectErr: true,
		},
		{
			name: "bad start",
			dfa: &DFA{
				start: 2,
				trans: []map[rune]int{{}},
				tags:  [][]int{nil},
			},
			expectErr: true,
		},
		{
			name: "transition out of range",
			dfa: &DFA{
				trans: []map[rune]int{{'a': 1}},
				tags:  [][]int{nil},
			},
			expectErr: true,
		},
		{
			name: "unknown pattern tag",
			dfa: &DFA{
				trans: []map[rune]int{{}},
				tags:  [][]int{{3}},
				kinds: []string{"A"},
			},
			expectErr: true,
		},
		{
			name: "nondeterministic graph",
			dfa: func() *DFA {
				g := graph.New(2)
				g.AddNode()
				g.AddNode()
				g.AddEdge(0, 0, graph.Literal('a'))
				g.AddEdge(0, 1, graph.Literal('a'))
				return &DFA{
					trans: []map[rune]int{{'a': 1}, {}},
					tags:  [][]int{nil, nil},
					g:     g,
				}
			}(),
			expectErr: true,
		},
		{
			name:      "built DFA",
			dfa:       dfaFor("a+b"),
			expectErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.dfa.Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_DFA_String(t *testing.T) {
	assert := assert.New(t)

	dfa := dfaFor("a+")

	expect := "<START: 0, STATES:\n" +
		"\t(0 [=(a)=> 1]),\n" +
		"\t((1 [=(a)=> 1]) \"K0\")\n" +
		">"

	assert.Equal(expect, dfa.String())
}

func Test_DFA_BinaryRoundTrip(t *testing.T) {
	assert := assert.New(t)

	dfa := dfaFor("int|void", "[a-z]+", `\[|\]`, "[0-9]+.[0-9]+", "é+")

	data, err := dfa.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded DFA
	err = decoded.UnmarshalBinary(data)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(dfa.String(), decoded.String())
	assert.Equal(dfa.Kinds(), decoded.Kinds())
	assert.Equal(dfa.NumStates(), decoded.Graph().Size())
	assert.Nil(decoded.NFAStates(0))
	assert.NoError(decoded.Validate())

	for _, in := range []string{"int", "in", "[", "1.5", "éé", "x"} {
		expectKind, expectOK := dfa.Match(in)
		actualKind, actualOK := decoded.Match(in)
		assert.Equal(expectOK, actualOK, in)
		assert.Equal(expectKind, actualKind, in)
	}
}

func Test_DFA_UnmarshalBinary_truncated(t *testing.T) {
	assert := assert.New(t)

	data, err := dfaFor("abc").MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded DFA
	assert.Error(decoded.UnmarshalBinary(data[:len(data)/2]))
}

func Test_DFA_UnmarshalBinary_hugeCount(t *testing.T) {
	enc := func(ints ...int) []byte {
		var data []byte
		for _, i := range ints {
			data = append(data, rezi.EncInt(i)...)
		}
		return data
	}

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "huge state count", data: enc(0, 0, 1<<62)},
		{name: "large state count", data: enc(0, 0, 100000000, 0, 0)},
		{name: "negative state count", data: enc(0, 0, -1)},
		{name: "huge kind count", data: enc(0, 1<<62)},
		{name: "huge transition count", data: enc(0, 0, 1, 1<<62, 0)},
		{name: "huge tag count", data: enc(0, 0, 1, 0, 1<<62)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var decoded DFA
			assert.NotPanics(func() {
				assert.Error(decoded.UnmarshalBinary(tc.data))
			})
		})
	}
}

func Test_DFA_TransitionTable(t *testing.T) {
	assert := assert.New(t)

	dfa := SubsetConstruct(CompileNFA([]Rule{
		{Expr: mustExpr("[0-9]+"), Kind: "INTEGER"},
		{Expr: mustExpr("int"), Kind: "TYPE"},
		{Expr: mustExpr("[a-z]+"), Kind: "IDENTIFIER"},
	}))

	table := dfa.TransitionTable(120)

	assert.Contains(table, "STATE")
	assert.Contains(table, "ACCEPTS")
	assert.Contains(table, "'0'-'9'->1")
	assert.Contains(table, "TYPE (over IDENTIFIER)")
	assert.Contains(table, "-> 0")
}
