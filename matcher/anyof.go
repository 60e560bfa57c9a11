package matcher

import "strings"

// anyOf is satisfied once any child matcher is satisfied. Every
// observation is forwarded to every child, even after one has already
// fired, so a subsequent Reset of the composite restores predictable
// inner state across all children.
type anyOf struct {
	children []Matcher
}

// AnyOf returns a Matcher satisfied once any of ms is satisfied.
func AnyOf(ms ...Matcher) Matcher {
	if len(ms) == 0 {
		panic("matcher: AnyOf requires at least one child")
	}
	return &anyOf{children: ms}
}

func (m *anyOf) Observe(label string) {
	for _, c := range m.children {
		c.Observe(label)
	}
}

func (m *anyOf) Satisfied() bool {
	for _, c := range m.children {
		if c.Satisfied() {
			return true
		}
	}
	return false
}

func (m *anyOf) Reset() {
	for _, c := range m.children {
		c.Reset()
	}
}

func (m *anyOf) String() string {
	parts := make([]string, len(m.children))
	for i, c := range m.children {
		parts[i] = c.String()
	}
	return "AnyOf(" + strings.Join(parts, ", ") + ")"
}
