package matcher

import "fmt"

// repeated is satisfied once its inner matcher has transitioned to
// satisfied n times. Each transition auto-resets the inner matcher and
// increments a counter; strict >= n, so further observations past the
// n-th transition leave it satisfied rather than resetting again.
type repeated struct {
	inner Matcher
	n     int
	count int
}

// Repeated returns a Matcher satisfied once inner has become satisfied n
// times, resetting inner after each transition; labels that do not
// satisfy inner in between do not reset the count. n must be >= 1.
func Repeated(inner Matcher, n int) Matcher {
	if n < 1 {
		panic("matcher: Repeated requires n >= 1")
	}
	return &repeated{inner: inner, n: n}
}

func (m *repeated) Observe(label string) {
	if m.count >= m.n {
		return
	}
	m.inner.Observe(label)
	if m.inner.Satisfied() {
		m.count++
		m.inner.Reset()
	}
}

func (m *repeated) Satisfied() bool { return m.count >= m.n }

func (m *repeated) Reset() {
	m.count = 0
	m.inner.Reset()
}

func (m *repeated) String() string {
	return fmt.Sprintf("Repeated(%s, %d)", m.inner, m.n)
}
