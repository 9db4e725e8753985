package lex

import (
	"errors"
	"strings"
	"testing"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/tunalex/internal/regex"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type expectToken struct {
	class   string
	lexeme  string
	line    int
	linePos int
}

func collect(stream TokenStream) []Token {
	var toks []Token
	for stream.HasNext() {
		toks = append(toks, stream.Next())
	}
	return toks
}

func Test_Lexer_Lex_defaultLanguage(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []expectToken
	}{
		{
			name:  "function",
			input: "int main() {\n\treturn 42;\n}",
			expect: []expectToken{
				{"type", "int", 1, 1},
				{"identifier", "main", 1, 5},
				{"brackets", "(", 1, 9},
				{"brackets", ")", 1, 10},
				{"brackets", "{", 1, 12},
				{"return", "return", 2, 2},
				{"integer", "42", 2, 9},
				{"end_statement", ";", 2, 11},
				{"brackets", "}", 3, 1},
				{"$", "", 3, 2},
			},
		},
		{
			name:  "numbers and identifiers",
			input: "3.14 10 x1",
			expect: []expectToken{
				{"float", "3.14", 1, 1},
				{"integer", "10", 1, 6},
				{"identifier", "x1", 1, 9},
				{"$", "", 1, 11},
			},
		},
		{
			name:  "keyword prefixes are identifiers",
			input: "returns intx in",
			expect: []expectToken{
				{"identifier", "returns", 1, 1},
				{"identifier", "intx", 1, 9},
				{"identifier", "in", 1, 14},
				{"$", "", 1, 16},
			},
		},
		{
			name:  "square brackets",
			input: "a[0]",
			expect: []expectToken{
				{"identifier", "a", 1, 1},
				{"brackets", "[", 1, 2},
				{"integer", "0", 1, 3},
				{"brackets", "]", 1, 4},
				{"$", "", 1, 5},
			},
		},
		{
			name:  "unrecognized input is reported then skipped",
			input: "int = 5",
			expect: []expectToken{
				{"type", "int", 1, 1},
				{"<error>", `unrecognized input "="`, 1, 5},
				{"integer", "5", 1, 7},
				{"$", "", 1, 8},
			},
		},
		{
			name:  "panic mode discards a run",
			input: "a @@ b",
			expect: []expectToken{
				{"identifier", "a", 1, 1},
				{"<error>", `unrecognized input "@@"`, 1, 3},
				{"identifier", "b", 1, 6},
				{"$", "", 1, 7},
			},
		},
		{
			name:  "empty input",
			input: "",
			expect: []expectToken{
				{"$", "", 1, 1},
			},
		},
	}

	lx := MustCompile(DefaultLanguage())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			stream, err := lx.Lex(strings.NewReader(tc.input))
			if !assert.NoError(err) {
				return
			}

			actual := collect(stream)

			if !assert.Len(actual, len(tc.expect)) {
				return
			}
			for i := range tc.expect {
				assert.Equal(tc.expect[i].class, actual[i].Class().ID(), "token #%d, class mismatch", i)
				assert.Equal(tc.expect[i].lexeme, actual[i].Lexeme(), "token #%d, lexeme mismatch", i)
				assert.Equal(tc.expect[i].line, actual[i].Line(), "token #%d, line number mismatch", i)
				assert.Equal(tc.expect[i].linePos, actual[i].LinePos(), "token #%d, line position mismatch", i)
			}
		})
	}
}

func Test_Lexer_Lex_fullLine(t *testing.T) {
	assert := assert.New(t)

	lx := MustCompile(DefaultLanguage())
	stream, err := lx.Lex(strings.NewReader("int x;\r\nreturn x;"))
	if !assert.NoError(err) {
		return
	}

	toks := collect(stream)

	assert.Equal("int x;", toks[0].FullLine())
	assert.Equal("return x;", toks[3].FullLine())
	assert.Equal(2, toks[3].Line())
}

func Test_TokenStream_Peek(t *testing.T) {
	assert := assert.New(t)

	lx := MustCompile(DefaultLanguage())
	stream, err := lx.Lex(strings.NewReader("int x"))
	if !assert.NoError(err) {
		return
	}

	peeked := stream.Peek()
	assert.Equal("int", peeked.Lexeme())
	assert.Equal("int", stream.Peek().Lexeme())

	next := stream.Next()
	assert.Equal(peeked, next)

	assert.Equal("x", stream.Peek().Lexeme())
	assert.Equal("x", stream.Next().Lexeme())
	assert.True(stream.HasNext())

	assert.True(stream.Next().Class().Equal(TokenEndOfText))
	assert.False(stream.HasNext())
	assert.True(stream.Next().Class().Equal(TokenEndOfText))
}

func Test_Lexer_Lex_normalizesInput(t *testing.T) {
	assert := assert.New(t)

	lx := MustCompile(Language{
		Name:     "accents",
		Patterns: []Pattern{{Regex: "é+", Kind: "E"}},
	})

	// decomposed: each e is followed by a combining acute accent
	toks, err := lx.LexAll("e\u0301e\u0301")

	assert.NoError(err)
	if assert.Len(toks, 1) {
		assert.Equal("éé", toks[0].Lexeme())
	}
}

func Test_Lexer_LexAll(t *testing.T) {
	assert := assert.New(t)

	lx := MustCompile(DefaultLanguage())

	toks, err := lx.LexAll("return 1;")
	assert.NoError(err)
	assert.Len(toks, 3)

	toks, err = lx.LexAll("return 1 # 2;")
	assert.Len(toks, 2)

	var unmatched *UnmatchedError
	if assert.ErrorAs(err, &unmatched) {
		assert.Equal(1, unmatched.Line)
		assert.Equal(10, unmatched.Pos)
		assert.Equal("line 1, char 10: unrecognized input \"#\"", err.Error())
	}
}

func Test_Lexer_LexAll_earlierPatternWins(t *testing.T) {
	assert := assert.New(t)

	lx := MustCompile(Language{
		Name: "words",
		Patterns: []Pattern{
			{Regex: "[a-z]+", Kind: "WORD"},
			{Regex: "int", Kind: "TYPE"},
			{Regex: " ", Kind: "SPACE"},
		},
		Skip: []string{"SPACE"},
	})

	toks, err := lx.LexAll("int integer")
	if !assert.NoError(err) || !assert.Len(toks, 2) {
		return
	}
	assert.Equal("WORD", toks[0].Class().Human())
	assert.Equal("int", toks[0].Lexeme())
	assert.Equal("WORD", toks[1].Class().Human())
	assert.Equal("integer", toks[1].Lexeme())
}

func Test_Compile_errors(t *testing.T) {
	testCases := []struct {
		name        string
		lang        Language
		opts        []Option
		expectIs    error
		expectIndex int
		expectKind  string
	}{
		{
			name:     "no patterns",
			lang:     Language{Name: "empty"},
			expectIs: ErrNoPatterns,
		},
		{
			name:     "empty kind",
			lang:     Language{Patterns: []Pattern{{Regex: "a"}}},
			expectIs: ErrInvalidLanguage,
		},
		{
			name:     "empty regex",
			lang:     Language{Patterns: []Pattern{{Kind: "A"}}},
			expectIs: ErrInvalidLanguage,
		},
		{
			name:     "unknown skip kind",
			lang:     Language{Patterns: []Pattern{{Regex: "a", Kind: "A"}}, Skip: []string{"B"}},
			expectIs: ErrInvalidLanguage,
		},
		{
			name: "malformed regex",
			lang: Language{Patterns: []Pattern{
				{Regex: "a", Kind: "A"},
				{Regex: "b(", Kind: "B"},
			}},
			expectIs:    regex.ErrMalformed,
			expectIndex: 1,
			expectKind:  "B",
		},
		{
			name: "nested too deeply",
			lang: Language{Patterns: []Pattern{
				{Regex: "((a))", Kind: "A"},
			}},
			opts:        []Option{WithMaxDepth(1)},
			expectIs:    regex.ErrTooDeep,
			expectIndex: 0,
			expectKind:  "A",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			lx, err := Compile(tc.lang, tc.opts...)

			assert.Nil(lx)
			assert.ErrorIs(err, tc.expectIs)

			var patErr *PatternError
			if errors.As(err, &patErr) {
				assert.Equal(tc.expectIndex, patErr.Index)
				assert.Equal(tc.expectKind, patErr.Kind)

				synErr, ok := patErr.SyntaxError()
				assert.True(ok)
				assert.NotNil(synErr)
			} else {
				assert.Empty(tc.expectKind, "expected a *PatternError")
			}
		})
	}
}

func Test_Compile_logsSteps(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.DebugLevel)

	_, err := Compile(DefaultLanguage(), WithLogger(zap.New(core)))
	assert.NoError(err)

	built := logs.FilterMessage("built DFA").All()
	if assert.Len(built, 1) {
		fields := built[0].ContextMap()
		assert.Equal("default", fields["language"])
		assert.Contains(fields, "states")
	}
	assert.Len(logs.FilterMessage("parsed pattern").All(), len(DefaultLanguage().Patterns))
}

func Test_Lexer_BinaryRoundTrip(t *testing.T) {
	assert := assert.New(t)

	lx := MustCompile(DefaultLanguage())

	data, err := lx.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded Lexer
	if !assert.NoError(decoded.UnmarshalBinary(data)) {
		return
	}

	assert.Equal(lx.Language(), decoded.Language())
	assert.Equal(lx.Hash(), decoded.Hash())
	assert.Equal(0, decoded.NFASize())

	input := "int main() { return 3.5; }"
	expect, err := lx.LexAll(input)
	assert.NoError(err)
	actual, err := decoded.LexAll(input)
	assert.NoError(err)
	assert.Equal(expect, actual)
}

func Test_Lexer_UnmarshalBinary_garbage(t *testing.T) {
	assert := assert.New(t)

	var lx Lexer
	assert.Error(lx.UnmarshalBinary([]byte{0x01}))
}

func Test_Lexer_UnmarshalBinary_hugeCount(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{
			name: "pattern count",
			data: append(rezi.EncString("x"), rezi.EncInt(1<<62)...),
		},
		{
			name: "skip count",
			data: append(append(rezi.EncString("x"), rezi.EncInt(0)...), rezi.EncInt(1<<62)...),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var lx Lexer
			assert.NotPanics(func() {
				assert.Error(lx.UnmarshalBinary(tc.data))
			})
		})
	}
}

func Test_BuildNFA(t *testing.T) {
	assert := assert.New(t)

	nfa, err := BuildNFA(DefaultLanguage())
	if !assert.NoError(err) {
		return
	}
	assert.Equal(len(DefaultLanguage().Patterns), nfa.NumPatterns())
	assert.Equal([]int{0}, nfa.Simulate("int"))
	assert.Equal([]int{1, 6}, nfa.Simulate("return"))

	lx := MustCompile(DefaultLanguage())
	assert.Equal(nfa.Graph().Size(), lx.NFASize())

	_, err = BuildNFA(Language{Patterns: []Pattern{{Regex: "a**(", Kind: "A"}}})
	var patErr *PatternError
	assert.ErrorAs(err, &patErr)
}
