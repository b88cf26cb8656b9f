package compile

import (
	"strconv"
	"strings"
)

// stylesheet accumulates flattened rules across the walk in first-seen
// order, deduplicating by (selector, declarations). A selector that
// reappears with different declarations is suffixed rather than
// silently dropped; the caller is told so it can record a diagnostic.
type stylesheet struct {
	rules      []StyleRule
	bySelector map[string]int
}

func newStylesheet() *stylesheet {
	return &stylesheet{bySelector: make(map[string]int)}
}

// add inserts rule, returning the selector actually used and whether it
// had to be suffixed to avoid a conflict.
func (s *stylesheet) add(rule StyleRule) (selector string, suffixed bool) {
	i, ok := s.bySelector[rule.Selector]
	if !ok {
		s.bySelector[rule.Selector] = len(s.rules)
		s.rules = append(s.rules, rule)
		return rule.Selector, false
	}
	if s.rules[i].Declarations.equal(rule.Declarations) {
		// Exact duplicate: one copy is enough.
		return rule.Selector, false
	}

	// Same selector, different declarations. Suffix until the slot is
	// free or an equal rule is found.
	for n := 2; ; n++ {
		candidate := rule.Selector + "-" + strconv.Itoa(n)
		j, taken := s.bySelector[candidate]
		if taken {
			if s.rules[j].Declarations.equal(rule.Declarations) {
				return candidate, true
			}
			continue
		}
		s.bySelector[candidate] = len(s.rules)
		s.rules = append(s.rules, StyleRule{Selector: candidate, Declarations: rule.Declarations})
		return candidate, true
	}
}

// render serializes the collected rules in collection order, one block
// per rule.
func (s *stylesheet) render() string {
	var b strings.Builder
	for i, rule := range s.rules {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(rule.Selector)
		b.WriteString(" {")
		for _, d := range rule.Declarations {
			b.WriteString(" ")
			b.WriteString(d.Property)
			b.WriteString(": ")
			b.WriteString(d.Value)
			b.WriteString(";")
		}
		b.WriteString(" }")
	}
	return b.String()
}
