package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunalex/internal/util"
)

// TransitionTable renders the DFA as a text table with one row per state,
// wrapped to fit width columns. Runs of consecutive input runes that lead to
// the same state are collapsed into a range such as "0-9".
func (dfa *DFA) TransitionTable(width int) string {
	data := [][]string{{"STATE", "ACCEPTS", "TRANSITIONS"}}

	for s := range dfa.trans {
		name := fmt.Sprintf("%d", s)
		if s == dfa.start {
			name = "-> " + name
		}

		accepts := ""
		if kind, ok := dfa.Accepts(s); ok {
			accepts = kind
			if len(dfa.tags[s]) > 1 {
				var shadowed []string
				for _, p := range dfa.tags[s][1:] {
					shadowed = append(shadowed, dfa.kinds[p])
				}
				accepts += " (over " + util.MakeTextList(shadowed) + ")"
			}
		}

		data = append(data, []string{name, accepts, dfa.transitionSummary(s)})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// transitionSummary lists the transitions out of state s, collapsing runs of
// adjacent runes with a common target.
func (dfa *DFA) transitionSummary(s int) string {
	inputs := util.OrderedKeys(dfa.trans[s])
	if len(inputs) == 0 {
		return "(none)"
	}

	var parts []string
	flush := func(lo, hi rune) {
		target := dfa.trans[s][lo]
		switch {
		case lo == hi:
			parts = append(parts, fmt.Sprintf("%q->%d", lo, target))
		case hi == lo+1:
			parts = append(parts, fmt.Sprintf("%q->%d, %q->%d", lo, target, hi, target))
		default:
			parts = append(parts, fmt.Sprintf("%q-%q->%d", lo, hi, target))
		}
	}

	lo, hi := inputs[0], inputs[0]
	for _, r := range inputs[1:] {
		if r == hi+1 && dfa.trans[s][r] == dfa.trans[s][lo] {
			hi = r
			continue
		}
		flush(lo, hi)
		lo, hi = r, r
	}
	flush(lo, hi)

	return strings.Join(parts, ", ")
}
