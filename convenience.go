package conctest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ygrebnov/conctest/matcher"
)

// AdvanceAll runs AdvanceContext concurrently for every (id, matcher) pair
// in reqs, against controllers Resolved from r, and returns a map from id
// to the error recovered from that task's advance (nil on success).
// Like the teacher's RunAll, it owns the whole fan-out/join: callers pass
// in work and get back results, never touching goroutines themselves.
//
// Unlike the teacher's RunAll (one task pool, shared cancellation),
// advances here target independent TaskControllers: one id's failure
// does not cancel another's in-flight advance.
func AdvanceAll(ctx context.Context, r *Registry, reqs map[TaskID]matcher.Matcher) map[TaskID]error {
	results := make(map[TaskID]error, len(reqs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for id, m := range reqs {
		id, m := id, m
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := recoverAdvance(func() {
				r.Resolve(ctx, id).AdvanceContext(ctx, m)
			})
			mu.Lock()
			results[id] = err
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

// AdvanceAllToEnd is AdvanceAll with every id matched against
// matcher.Exact(LabelEnd).
func AdvanceAllToEnd(ctx context.Context, r *Registry, ids ...TaskID) map[TaskID]error {
	reqs := make(map[TaskID]matcher.Matcher, len(ids))
	for _, id := range ids {
		reqs[id] = matcher.Exact(string(LabelEnd))
	}
	return AdvanceAll(ctx, r, reqs)
}

// recoverAdvance runs fn, converting a panic (the fatal-error convention
// used by TaskController.AdvanceContext) into a returned error, mirroring
// the teacher's task-execution panic-recovery idiom at the goroutine
// boundary.
func recoverAdvance(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if e, ok := p.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%s: advance panicked: %v", Namespace, p)
		}
	}()
	fn()
	return nil
}
