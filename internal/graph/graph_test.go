package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Graph_AddNode(t *testing.T) {
	assert := assert.New(t)
	g := &Graph{}

	assert.Equal(0, g.AddNode())
	assert.Equal(1, g.AddNode())
	assert.Equal(2, g.AddNode())
	assert.Equal(3, g.Size())
}

func Test_Graph_AddEdge(t *testing.T) {
	testCases := []struct {
		name      string
		nodes     int
		from      int
		to        int
		expectErr bool
	}{
		{name: "valid", nodes: 2, from: 0, to: 1},
		{name: "self loop", nodes: 1, from: 0, to: 0},
		{name: "source out of range", nodes: 2, from: 2, to: 1, expectErr: true},
		{name: "target out of range", nodes: 2, from: 0, to: 5, expectErr: true},
		{name: "negative source", nodes: 2, from: -1, to: 0, expectErr: true},
		{name: "empty graph", nodes: 0, from: 0, to: 0, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g := New(tc.nodes)
			for i := 0; i < tc.nodes; i++ {
				g.AddNode()
			}

			if tc.expectErr {
				assert.Panics(func() { g.AddEdge(tc.from, tc.to, Literal('a')) })
				return
			}

			assert.NotPanics(func() { g.AddEdge(tc.from, tc.to, Literal('a')) })
			assert.Equal([]Label{"a"}, g.Labels(tc.from, tc.to))
		})
	}
}

func Test_Graph_DuplicateLabels(t *testing.T) {
	assert := assert.New(t)
	g := &Graph{}
	a, b := g.AddNode(), g.AddNode()

	g.AddEdge(a, b, Epsilon)
	g.AddEdge(a, b, Literal('x'))
	g.AddEdge(a, b, Epsilon)

	assert.Equal([]Label{Epsilon, "x", Epsilon}, g.Labels(a, b))
	assert.Equal([]int{b}, g.Neighbours(a, Epsilon))
	assert.Len(g.Edges(), 3)
}

func Test_Graph_Neighbours(t *testing.T) {
	assert := assert.New(t)
	g := &Graph{}
	for i := 0; i < 5; i++ {
		g.AddNode()
	}
	g.AddEdge(0, 3, Epsilon)
	g.AddEdge(0, 1, Epsilon)
	g.AddEdge(0, 2, Literal('a'))
	g.AddEdge(0, 4, Escaped('*'))
	g.AddEdge(1, 0, Epsilon)

	assert.Equal([]int{1, 3}, g.Neighbours(0, Epsilon))
	assert.Equal([]int{2}, g.Neighbours(0, Literal('a')))
	assert.Equal([]int{4}, g.Neighbours(0, Escaped('*')))
	assert.Nil(g.Neighbours(0, Literal('*')))
	assert.Nil(g.Neighbours(2, Epsilon))
	assert.Nil(g.Neighbours(99, Epsilon))
	assert.Equal([]Label{Epsilon, "\\*", "a"}, g.OutLabels(0))
}

func Test_Label(t *testing.T) {
	testCases := []struct {
		name        string
		label       Label
		expectRune  rune
		expectOK    bool
		expectEsc   bool
		expectPrint string
	}{
		{name: "epsilon", label: Epsilon, expectPrint: "ε"},
		{name: "literal", label: Literal('q'), expectRune: 'q', expectOK: true, expectPrint: "q"},
		{name: "escaped", label: Escaped('('), expectRune: '(', expectOK: true, expectEsc: true, expectPrint: `\(`},
		{name: "escaped backslash", label: Escaped('\\'), expectRune: '\\', expectOK: true, expectEsc: true, expectPrint: `\\`},
		{name: "lone backslash literal", label: Literal('\\'), expectRune: '\\', expectOK: true, expectPrint: `\`},
		{name: "multibyte", label: Literal('é'), expectRune: 'é', expectOK: true, expectPrint: "é"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r, ok := tc.label.Rune()

			assert.Equal(tc.expectOK, ok)
			assert.Equal(tc.expectRune, r)
			assert.Equal(tc.expectEsc, tc.label.IsEscaped())
			assert.Equal(tc.expectPrint, tc.label.String())
		})
	}
}

func Test_Graph_Alphabet(t *testing.T) {
	assert := assert.New(t)
	g := &Graph{}
	for i := 0; i < 3; i++ {
		g.AddNode()
	}
	g.AddEdge(0, 1, Literal('b'))
	g.AddEdge(1, 2, Literal('a'))
	g.AddEdge(0, 2, Epsilon)
	g.AddEdge(2, 0, Literal('a'))

	assert.Equal([]Label{"a", "b"}, g.Alphabet())
}

func Test_Graph_String(t *testing.T) {
	assert := assert.New(t)
	g := &Graph{}
	g.AddNode()
	g.AddNode()
	g.AddEdge(0, 1, Epsilon)
	g.AddEdge(1, 1, Literal('a'))

	expect := "<NODES: 2, EDGES:\n\t0 =(ε)=> 1,\n\t1 =(a)=> 1\n>"

	assert.Equal(expect, g.String())
}
