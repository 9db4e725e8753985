package regex

import (
	"strings"
)

// Metacharacters are the runes that have special meaning in a pattern outside
// of a character class. Each must be escaped with a backslash to be matched
// literally.
const Metacharacters = `()[]|*+\`

// MaxClassSize is the largest number of distinct members a single character
// class may expand to.
const MaxClassSize = 1024

// escapes returns, for every rune of rs, whether it is escaped. A rune is
// escaped if and only if it is preceded by an odd number of consecutive
// backslashes, which a single left-to-right toggle gives.
func escapes(rs []rune) []bool {
	esc := make([]bool, len(rs))
	escaping := false
	for i := range rs {
		esc[i] = escaping
		if rs[i] == '\\' && !escaping {
			escaping = true
		} else {
			escaping = false
		}
	}
	return esc
}

// ExpandClasses rewrites every bracketed character class in pattern as an
// explicit parenthesized alternation of its members, so that "[a-c]" becomes
// "(a|b|c)". The returned text contains only literals, escaped literals,
// grouping, alternation, and the postfix operators. Text with no unescaped
// brackets is returned unchanged.
func ExpandClasses(pattern string) (string, error) {
	var p Parser
	rs, _, err := p.expand(pattern)
	if err != nil {
		return "", err
	}
	return string(rs), nil
}

// checkBrackets finds problems with escapes and bracket pairing in the
// original pattern so they can be reported with exact offsets.
func (p Parser) checkBrackets(pattern string, rs []rune, esc []bool) error {
	var opens []int
	for i := range rs {
		if esc[i] {
			continue
		}
		switch rs[i] {
		case '\\':
			if i+1 >= len(rs) {
				return malformed(pattern, i, "dangling escape at end of pattern")
			}
		case '[':
			if i+1 < len(rs) && rs[i+1] == ']' {
				return malformed(pattern, i, "empty character class")
			}
			opens = append(opens, i)
			if len(opens) > p.maxDepth() {
				return tooDeep(pattern, i, p.maxDepth())
			}
		case ']':
			if len(opens) < 1 {
				return malformed(pattern, i, "unmatched ']'")
			}
			opens = opens[:len(opens)-1]
		}
	}
	if len(opens) > 0 {
		return malformed(pattern, opens[0], "unterminated character class")
	}
	return nil
}

// expand does the work of ExpandClasses. Along with the expanded runes, it
// returns the offset in the original pattern that each rune came from, so
// later errors can point back into what the user actually wrote.
func (p Parser) expand(pattern string) ([]rune, []int, error) {
	rs := []rune(pattern)
	origin := make([]int, len(rs))
	for i := range origin {
		origin[i] = i
	}

	if err := p.checkBrackets(pattern, rs, escapes(rs)); err != nil {
		return nil, nil, err
	}

	for {
		esc := escapes(rs)

		closeIdx := -1
		for i := range rs {
			if rs[i] == ']' && !esc[i] {
				closeIdx = i
				break
			}
		}
		if closeIdx == -1 {
			return rs, origin, nil
		}

		openIdx := -1
		for i := closeIdx - 1; i >= 0; i-- {
			if rs[i] == '[' && !esc[i] {
				openIdx = i
				break
			}
		}
		if openIdx == -1 {
			// checkBrackets should have already caught this
			return nil, nil, malformed(pattern, origin[closeIdx], "unmatched ']'")
		}

		members, err := classMembers(pattern, rs[openIdx+1:closeIdx], esc[openIdx+1:closeIdx], origin[openIdx+1:closeIdx])
		if err != nil {
			return nil, nil, err
		}

		// if this class is itself inside of another one, its members are
		// spliced in directly so the outer class takes them as its own.
		nested := false
		for i := 0; i < openIdx; i++ {
			if rs[i] == '[' && !esc[i] {
				nested = true
				break
			}
		}

		var sb strings.Builder
		if nested {
			for _, m := range members {
				writeMember(&sb, m, true)
			}
		} else {
			sb.WriteRune('(')
			for i, m := range members {
				if i > 0 {
					sb.WriteRune('|')
				}
				writeMember(&sb, m, false)
			}
			sb.WriteRune(')')
		}

		replacement := []rune(sb.String())
		replOrigin := make([]int, len(replacement))
		for i := range replOrigin {
			replOrigin[i] = origin[openIdx]
		}

		newRunes := make([]rune, 0, len(rs)-(closeIdx-openIdx+1)+len(replacement))
		newRunes = append(newRunes, rs[:openIdx]...)
		newRunes = append(newRunes, replacement...)
		newRunes = append(newRunes, rs[closeIdx+1:]...)

		newOrigin := make([]int, 0, len(newRunes))
		newOrigin = append(newOrigin, origin[:openIdx]...)
		newOrigin = append(newOrigin, replOrigin...)
		newOrigin = append(newOrigin, origin[closeIdx+1:]...)

		rs, origin = newRunes, newOrigin
	}
}

// classMembers gives the distinct runes that a class body stands for, in the
// order they first appear. Ranges x-y are expanded in place. A '-' that is
// first or last in the body, or escaped, is a literal dash.
func classMembers(pattern string, body []rune, esc []bool, origin []int) ([]rune, error) {
	var members []rune
	seen := map[rune]bool{}
	add := func(r rune) error {
		if seen[r] {
			return nil
		}
		if len(members) >= MaxClassSize {
			return malformed(pattern, origin[0], "character class has more than %d members", MaxClassSize)
		}
		seen[r] = true
		members = append(members, r)
		return nil
	}

	// readAtom gives the rune at i (unescaping it if needed) and the index
	// just after it.
	readAtom := func(i int) (rune, int) {
		if body[i] == '\\' && !esc[i] && i+1 < len(body) {
			return body[i+1], i + 2
		}
		return body[i], i + 1
	}

	i := 0
	for i < len(body) {
		start := i
		lo, next := readAtom(i)
		i = next

		isRange := i+1 < len(body) && body[i] == '-' && !esc[i]
		if !isRange {
			if err := add(lo); err != nil {
				return nil, err
			}
			continue
		}

		hi, next := readAtom(i + 1)
		if hi < lo {
			return nil, malformed(pattern, origin[start], "range %q-%q is out of order", lo, hi)
		}
		if int(hi-lo) >= MaxClassSize {
			return nil, malformed(pattern, origin[start], "character class has more than %d members", MaxClassSize)
		}
		for r := lo; r <= hi; r++ {
			if err := add(r); err != nil {
				return nil, err
			}
		}
		i = next
	}

	if len(members) < 1 {
		var at int
		if len(origin) > 0 {
			at = origin[0]
		}
		return nil, malformed(pattern, at, "empty character class")
	}

	return members, nil
}

func writeMember(sb *strings.Builder, r rune, inClass bool) {
	if strings.ContainsRune(Metacharacters, r) || (inClass && r == '-') {
		sb.WriteRune('\\')
	}
	sb.WriteRune(r)
}
