package conctest

import (
	"errors"
	"fmt"
)

// Namespace prefixes every sentinel error surfaced by this package.
const Namespace = "conctest"

var (
	// ErrDuplicateWait is the panic value (wrapped) when Resolve is called
	// for an id that already has a pending waiter — two drivers racing for
	// the same task.
	ErrDuplicateWait = errors.New(Namespace + ": concurrent resolve for the same task id")

	// ErrInvalidID is returned when a nest segment or joined id violates
	// the TaskId grammar (empty segment, segment containing '.').
	ErrInvalidID = errors.New(Namespace + ": invalid task id")

	// ErrAlreadyRegistered is the panic value (wrapped) from Nest/Register
	// when the effective id is already present in the registry.
	ErrAlreadyRegistered = errors.New(Namespace + ": task id already registered")

	// ErrRegistryClosed is the panic value (wrapped) for any caller still
	// waiting on Resolve, or attempting Resolve/Register/Advance, after
	// Registry.Close; Announce returns it to a task suspended at Close.
	ErrRegistryClosed = errors.New(Namespace + ": registry closed")

	// ErrConcurrentAdvance is the panic value (wrapped) when two callers
	// call Advance on the same TaskController at the same time.
	ErrConcurrentAdvance = errors.New(Namespace + ": concurrent advance on the same task id")

	// ErrReservedLabel is returned when user code announces a label
	// ending in the reserved " block" suffix.
	ErrReservedLabel = errors.New(Namespace + ": label uses the reserved \" block\" suffix")

	// ErrInvalidConfig is returned by validateConfig for a malformed Config.
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
)

// LabelError is the fatal error reported when a driver's Advance call
// cannot be satisfied: either the controlled task ended (channel closed)
// before the matcher fired, or its rendezvous was dropped. It names the
// task id and a description of the matcher that was never satisfied, per
// the error taxonomy in the design notes.
type LabelError struct {
	TaskID  TaskID
	Waiting string // matcher.String() of the matcher that never fired
	err     error
}

func newLabelError(id TaskID, waiting string, cause error) *LabelError {
	return &LabelError{TaskID: id, Waiting: waiting, err: cause}
}

func (e *LabelError) Error() string {
	return fmt.Sprintf(
		"%s: task %q ended without reaching %s", Namespace, e.TaskID, e.Waiting,
	)
}

func (e *LabelError) Unwrap() error { return e.err }

// ErrTaskEnded is wrapped by LabelError when the task's announced
// channel was closed (its controller was dropped) before the matcher
// was satisfied.
var ErrTaskEnded = errors.New(Namespace + ": task ended before matcher was satisfied")
