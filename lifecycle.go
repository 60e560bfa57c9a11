package conctest

import "sort"

// Close tears the registry down, in the deterministic order: first it
// cancels every pending Resolve waiter (they observe ErrRegistryClosed
// instead of blocking forever), then it closes every registered
// controller's rendezvous channels, root last — mirroring the teacher's
// lifecycleCoordinator sequencing of cancellation before channel closure,
// adapted from a single worker pool's shutdown into an ordered sweep over
// the whole task tree.
//
// Close is safe for concurrent and repeated calls; the sequence executes
// exactly once.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true

		ids := make([]TaskID, 0, len(r.controllers))
		for id := range r.controllers {
			if id == RootID {
				continue
			}
			ids = append(ids, id)
		}
		// Longest ids first, so every descendant is closed before its
		// ancestors; ids of equal length are ordered by id.
		sort.Slice(ids, func(i, j int) bool {
			if len(ids[i]) != len(ids[j]) {
				return len(ids[i]) > len(ids[j])
			}
			return ids[i] < ids[j]
		})

		waiters := r.waiters
		r.waiters = make(map[TaskID]chan *TaskController)
		controllers := r.controllers
		root := controllers[RootID]
		r.mu.Unlock()

		for _, w := range waiters {
			close(w)
		}

		for _, id := range ids {
			controllers[id].close()
		}
		if root != nil {
			root.close()
		}

		r.cfg.Logger.Info().Int("tasks", len(controllers)).Msg(logEventClose)
	})
}
