package conctest

import (
	"context"
	"fmt"
)

// Guard runs exactly one of real or fail, chosen by the controller's
// current isolation state, and returns its result. It is the network-
// call guard from the design notes: production code wraps each outbound
// call in Guard so a test can fault a task's entire subtree without the
// call site knowing it is under test.
//
// Guard recovers a panic from the chosen function into a returned error,
// adapting the teacher's task-execution panic-recovery idiom — a guarded
// call runs on the caller's goroutine (unlike the teacher's, which always
// forks one), since nothing here needs ctx-cancellation preemption of
// the call itself; IsIsolated is read once, before either function runs.
func Guard[R any](ctx context.Context, ctrl *TaskController, real, fail func(context.Context) (R, error)) (result R, err error) {
	fn := real
	if ctrl.IsIsolated() {
		fn = fail
	}

	defer func() {
		if p := recover(); p != nil {
			var zero R
			result = zero
			err = fmt.Errorf("conctest: guarded call for task %q panicked: %v", ctrl.id, p)
		}
	}()

	return fn(ctx)
}
