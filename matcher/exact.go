package matcher

import "fmt"

// exact is satisfied the first time an observed label equals a fixed
// string. It is sticky: once satisfied it stays satisfied until Reset.
type exact struct {
	want      string
	satisfied bool
}

// Exact returns a Matcher satisfied by an observed label equal to want.
func Exact(want string) Matcher {
	return &exact{want: want}
}

func (m *exact) Observe(label string) {
	if !m.satisfied && label == m.want {
		m.satisfied = true
	}
}

func (m *exact) Satisfied() bool { return m.satisfied }

func (m *exact) Reset() { m.satisfied = false }

func (m *exact) String() string { return fmt.Sprintf("Exact(%q)", m.want) }
