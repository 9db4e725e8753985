// Package regex parses the restricted regular expressions that tunalex token
// patterns are written in.
//
// A pattern is built from literal runes, backslash-escaped runes,
// concatenation, alternation with '|', grouping with parentheses, the postfix
// operators '*' and '+', and bracketed character classes such as "[a-zA-Z_]".
// Character classes are first rewritten into plain alternations by
// ExpandClasses; the result is then parsed into a Node tree by Parse.
package regex

// DefaultMaxDepth is the nesting limit used by a Parser whose MaxDepth is not
// set.
const DefaultMaxDepth = 256

// Parser turns pattern text into expression trees. The zero value is ready
// for use.
type Parser struct {
	// MaxDepth is the deepest that groups or character classes may be nested.
	// Patterns that go deeper are rejected with an error that wraps
	// ErrTooDeep instead of being parsed. If less than 1, DefaultMaxDepth is
	// used.
	MaxDepth int
}

func (p Parser) maxDepth() int {
	if p.MaxDepth < 1 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

// Parse parses pattern with a zero-value Parser.
func Parse(pattern string) (Node, error) {
	var p Parser
	return p.Parse(pattern)
}

// MustParse is like Parse but panics if the pattern cannot be parsed.
func MustParse(pattern string) Node {
	n, err := Parse(pattern)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// Parse expands the character classes in pattern and then parses it into an
// expression tree. Operator precedence from tightest to loosest binding is
// grouping, postfix '*' and '+', concatenation, then alternation.
//
// Any error returned will be a *SyntaxError.
func (p Parser) Parse(pattern string) (Node, error) {
	rs, origin, err := p.expand(pattern)
	if err != nil {
		return nil, err
	}

	st := &parseState{
		pattern: pattern,
		rs:      rs,
		esc:     escapes(rs),
		origin:  origin,
		limit:   p.maxDepth(),
	}

	if len(rs) == 0 {
		return nil, malformed(pattern, 0, "empty pattern")
	}

	n, err := st.alternation()
	if err != nil {
		return nil, err
	}

	if st.pos < len(st.rs) {
		// only thing that stops the top-level alternation early is a ')'
		return nil, st.errorf("unmatched ')'")
	}

	return n, nil
}

type parseState struct {
	pattern string
	rs      []rune
	esc     []bool
	origin  []int
	pos     int
	depth   int
	limit   int
}

// offset gives the position in the original pattern of the rune at the
// current position.
func (st *parseState) offset() int {
	if st.pos < len(st.origin) {
		return st.origin[st.pos]
	}
	return len([]rune(st.pattern))
}

func (st *parseState) errorf(format string, a ...interface{}) error {
	return malformed(st.pattern, st.offset(), format, a...)
}

func (st *parseState) atEnd() bool {
	return st.pos >= len(st.rs)
}

// peekOp returns the current rune and whether it is an unescaped operator
// character.
func (st *parseState) peekOp() (rune, bool) {
	if st.atEnd() {
		return 0, false
	}
	r := st.rs[st.pos]
	if st.esc[st.pos] {
		return r, false
	}
	switch r {
	case '(', ')', '|', '*', '+', '\\', '[', ']':
		return r, true
	}
	return r, false
}

func (st *parseState) alternation() (Node, error) {
	var branches []Node

	for {
		br, err := st.concatenation()
		if err != nil {
			return nil, err
		}
		branches = append(branches, br)

		if r, isOp := st.peekOp(); isOp && r == '|' {
			st.pos++
			continue
		}
		break
	}

	if len(branches) == 1 {
		return branches[0], nil
	}
	return Alt{Branches: branches}, nil
}

func (st *parseState) concatenation() (Node, error) {
	var items []Node

	for !st.atEnd() {
		if r, isOp := st.peekOp(); isOp && (r == '|' || r == ')') {
			break
		}

		item, err := st.postfix()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		if r, isOp := st.peekOp(); isOp && r == ')' && st.pos > 0 && st.rs[st.pos-1] == '(' && !st.esc[st.pos-1] {
			return nil, st.errorf("empty group")
		}
		return nil, st.errorf("empty alternative")
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return Concat{Items: items}, nil
}

func (st *parseState) postfix() (Node, error) {
	n, err := st.atom()
	if err != nil {
		return nil, err
	}

	for {
		r, isOp := st.peekOp()
		if !isOp {
			return n, nil
		}

		switch r {
		case '*':
			st.pos++
			n = applyStar(n)
		case '+':
			st.pos++
			n = applyPlus(n)
		default:
			return n, nil
		}
	}
}

// applyStar and applyPlus collapse stacked postfix operators: X** is X*, and
// any mix of '*' and '+' is X*.
func applyStar(n Node) Node {
	switch v := n.(type) {
	case Star:
		return v
	case Plus:
		return Star{Of: v.Of}
	}
	return Star{Of: n}
}

func applyPlus(n Node) Node {
	switch n.(type) {
	case Star, Plus:
		return n
	}
	return Plus{Of: n}
}

func (st *parseState) atom() (Node, error) {
	r, isOp := st.peekOp()
	if !isOp {
		st.pos++
		return Literal{R: r}, nil
	}

	switch r {
	case '\\':
		if st.pos+1 >= len(st.rs) {
			return nil, st.errorf("dangling escape at end of pattern")
		}
		escaped := st.rs[st.pos+1]
		st.pos += 2
		return EscapedLiteral{R: escaped}, nil
	case '(':
		openAt := st.pos
		st.depth++
		if st.depth > st.limit {
			return nil, tooDeep(st.pattern, st.offset(), st.limit)
		}
		st.pos++

		inner, err := st.alternation()
		if err != nil {
			return nil, err
		}

		if next, isOp := st.peekOp(); !isOp || next != ')' {
			st.pos = openAt
			return nil, st.errorf("unclosed group")
		}
		st.pos++
		st.depth--
		return Group{Of: inner}, nil
	case '*', '+':
		return nil, st.errorf("nothing for %q to repeat", r)
	case ')':
		return nil, st.errorf("unmatched ')'")
	default:
		// '[' or ']' left over after class expansion, or '|'; expand and
		// concatenation both make this impossible to reach.
		return nil, st.errorf("unexpected %q", r)
	}
}
