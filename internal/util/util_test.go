package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_OrderedKeys(t *testing.T) {
	assert := assert.New(t)

	actual := OrderedKeys(map[rune]int{'c': 1, 'a': 2, 'b': 3})

	assert.Equal([]rune{'a', 'b', 'c'}, actual)
}

func Test_Stack(t *testing.T) {
	assert := assert.New(t)

	var s Stack[int]
	s.Push(1)
	s.Push(2)
	s.Push(3)

	assert.Equal(3, s.Len())
	assert.Equal(3, s.Peek())
	assert.Equal(3, s.Pop())
	assert.Equal(2, s.Pop())
	assert.Equal(1, s.Pop())
	assert.True(s.Empty())
	assert.Panics(func() { s.Pop() })
}

func Test_Queue(t *testing.T) {
	assert := assert.New(t)

	var q Queue[string]
	q.Enqueue("a")
	q.Enqueue("b")

	assert.Equal("a", q.Dequeue())
	assert.Equal("b", q.Dequeue())
	assert.Equal(0, q.Len())
}

func Test_KeySet(t *testing.T) {
	testCases := []struct {
		name   string
		left   []rune
		right  []rune
		expect string
	}{
		{name: "both empty", expect: "{}"},
		{name: "disjoint", left: []rune{'a'}, right: []rune{'b'}, expect: "{97, 98}"},
		{name: "overlap", left: []rune{'a', 'b'}, right: []rune{'b'}, expect: "{97, 98}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := KeySetOf(tc.left).Union(KeySetOf(tc.right))

			assert.Equal(tc.expect, actual.String())
		})
	}
}

func Test_MakeTextList(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", MakeTextList(nil))
	assert.Equal("x", MakeTextList([]string{"x"}))
	assert.Equal("x and y", MakeTextList([]string{"x", "y"}))
	assert.Equal("x, y, and z", MakeTextList([]string{"x", "y", "z"}))
}
