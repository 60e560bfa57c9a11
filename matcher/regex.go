package matcher

import (
	"fmt"
	"regexp"
)

// regexMatcher is satisfied the first time an observed label matches an
// unanchored pattern. Sticky, like exact.
type regexMatcher struct {
	pattern   string
	re        *regexp.Regexp
	satisfied bool
}

// Regex returns a Matcher satisfied by an observed label matching the
// given unanchored pattern. It panics if the pattern does not compile —
// a malformed pattern is a test-authoring bug, not a runtime condition.
func Regex(pattern string) Matcher {
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("matcher: invalid regex %q: %v", pattern, err))
	}
	return &regexMatcher{pattern: pattern, re: re}
}

func (m *regexMatcher) Observe(label string) {
	if !m.satisfied && m.re.MatchString(label) {
		m.satisfied = true
	}
}

func (m *regexMatcher) Satisfied() bool { return m.satisfied }

func (m *regexMatcher) Reset() { m.satisfied = false }

func (m *regexMatcher) String() string { return fmt.Sprintf("Regex(%q)", m.pattern) }
