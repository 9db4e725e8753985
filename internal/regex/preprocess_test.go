package regex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ExpandClasses(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    string
		expectErr bool
		errOffset int
	}{
		{name: "no classes", input: "abc", expect: "abc"},
		{name: "simple range", input: "[a-c]", expect: "(a|b|c)"},
		{name: "digit range with plus", input: "[0-9]+", expect: "(0|1|2|3|4|5|6|7|8|9)+"},
		{name: "literal set", input: "[xyz]", expect: "(x|y|z)"},
		{name: "range and literals", input: "[_a-c]", expect: "(_|a|b|c)"},
		{name: "duplicate members", input: "[aab]", expect: "(a|b)"},
		{name: "single member", input: "[a]", expect: "(a)"},
		{name: "two classes", input: "[ab][cd]", expect: "(a|b)(c|d)"},
		{name: "trailing dash is literal", input: "[a-]", expect: "(a|-)"},
		{name: "leading dash is literal", input: "[-a]", expect: "(-|a)"},
		{name: "escaped dash is literal", input: `[a\-c]`, expect: "(a|-|c)"},
		{name: "metacharacter members are escaped", input: "[*+|]", expect: `(\*|\+|\|)`},
		{name: "escaped brackets in class", input: `[\(\){}\[\]]`, expect: `(\(|\)|{|}|\[|\])`},
		{name: "escaped class delimiters are not a class", input: `\[a\]`, expect: `\[a\]`},
		{name: "escaped backslash before close bracket", input: `[x\\]`, expect: `(x|\\)`},
		{name: "escaped backslash then literal text", input: `a[\\]b`, expect: `a(\\)b`},
		{name: "nested class", input: "[x[ab]]", expect: "(x|a|b)"},
		{name: "nested class with dash member", input: "[a[-]z]", expect: "(a|-|z)"},
		{name: "class inside group", input: "([a-b]c)*", expect: "((a|b)c)*"},
		{name: "empty class", input: "[]", expectErr: true, errOffset: 0},
		{name: "unmatched close", input: "a]", expectErr: true, errOffset: 1},
		{name: "unterminated class", input: "x[abc", expectErr: true, errOffset: 1},
		{name: "dangling escape", input: `ab\`, expectErr: true, errOffset: 2},
		{name: "escaped close does not terminate", input: `[a\]`, expectErr: true, errOffset: 0},
		{name: "descending range", input: "q[z-a]", expectErr: true, errOffset: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ExpandClasses(tc.input)
			if tc.expectErr {
				var synErr *SyntaxError
				if !assert.ErrorAs(err, &synErr) {
					return
				}
				assert.ErrorIs(err, ErrMalformed)
				assert.Equal(tc.input, synErr.Pattern)
				assert.Equal(tc.errOffset, synErr.Offset)
				return
			} else if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ExpandClasses_Idempotent(t *testing.T) {
	inputs := []string{
		"int|void",
		`[\(\){}\[\]]`,
		"[0-9]+.[0-9]+",
		"[a-zA-Z][a-zA-Z0-9]*",
		"[x[ab]]",
		`[x\\]`,
		`\[a\]`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert := assert.New(t)

			once, err := ExpandClasses(input)
			if !assert.NoError(err) {
				return
			}
			twice, err := ExpandClasses(once)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(once, twice)
		})
	}
}

func Test_ExpandClasses_TooDeep(t *testing.T) {
	assert := assert.New(t)
	p := Parser{MaxDepth: 2}

	_, _, err := p.expand("[[[a]]]")

	assert.True(errors.Is(err, ErrTooDeep))
	assert.False(errors.Is(err, ErrMalformed))
}

func Test_ExpandClasses_TooLarge(t *testing.T) {
	assert := assert.New(t)

	_, err := ExpandClasses("[\u0000-￿]")

	assert.ErrorIs(err, ErrMalformed)
}

func Test_SyntaxError_Caret(t *testing.T) {
	assert := assert.New(t)
	err := &SyntaxError{Pattern: "ab]c", Offset: 2, Reason: "unmatched ']'"}

	assert.Equal("ab]c\n  ^", err.Caret())
	assert.Equal(`pattern "ab]c": offset 2: unmatched ']'`, err.Error())
}
