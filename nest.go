package conctest

// Nest registers a new controller for a child segment under parent,
// computing the effective id via the TaskId grammar (join), and
// returns the child's controller. It is the entry point a controlled
// task's syntactic wrapper calls before running the task body, passing
// the returned controller's Announce/IsIsolated down into it.
//
// Nest panics with ErrInvalidID if segment violates the grammar, and
// with ErrAlreadyRegistered if the effective id collides with an
// existing controller — both test-setup bugs, not recoverable
// conditions.
func (r *Registry) Nest(parent TaskID, segment string) *TaskController {
	id, err := join(parent, segment)
	if err != nil {
		panic(err)
	}

	correlationID := r.cfg.IDGenerator()
	child := newTaskController(id, correlationID, r)
	r.Register(child)
	return child
}
