// Package matcher implements the pluggable predicates that decide when a
// driver's "advance task until label L" request is satisfied.
//
// Matcher is a small, closed trait: observe/satisfied/reset. The closed
// set of variants (Exact, Regex, Repeated, AnyOf) is expressive enough
// to compose the scenarios in the harness's design notes while keeping
// each variant's state machine trivially testable in isolation — a
// deliberate alternative to an open-ended predicate-callback interface.
package matcher

import "fmt"

// Matcher observes a task's announced labels (never block labels — the
// caller is expected to filter those out before calling Observe) and
// decides when enough have been seen. It also describes itself, for use
// in fatal "task ended without reaching L" error messages.
type Matcher interface {
	fmt.Stringer

	// Observe is fed each user-visible label a task announces, in
	// arrival order.
	Observe(label string)

	// Satisfied is a pure, monotone-within-one-advance-pass query: once
	// true within a pass it does not revert to false except via Reset.
	Satisfied() bool

	// Reset restores the matcher to its initial, unsatisfied state.
	Reset()
}
