package conctest

import (
	"context"

	"github.com/ygrebnov/conctest/matcher"
)

// AdvanceRequest is one unit of work for AdvanceStream: advance the task
// named by ID until Matcher is satisfied.
type AdvanceRequest struct {
	ID      TaskID
	Matcher matcher.Matcher
}

// AdvanceResult reports the outcome of one AdvanceRequest.
type AdvanceResult struct {
	ID  TaskID
	Err error
}

// AdvanceStream consumes requests from in and, for each, resolves its
// controller against r and advances it, emitting one AdvanceResult per
// request on the returned channel. The returned channel is closed once
// in is closed and every started advance's result has been forwarded; if
// ctx is done, it is closed without waiting for results not yet
// forwarded. This mirrors the teacher's RunStream intake-loop/forwarder idiom: a single
// goroutine owns intake and the final close, one goroutine per request
// does the actual advance.
func AdvanceStream(ctx context.Context, r *Registry, in <-chan AdvanceRequest) <-chan AdvanceResult {
	out := make(chan AdvanceResult, 1)

	go func() {
		defer close(out)

		done := make(chan AdvanceResult, 16)
		started := 0

		intake := true
		for intake {
			select {
			case <-ctx.Done():
				intake = false
			case req, ok := <-in:
				if !ok {
					intake = false
					break
				}
				started++
				go func(req AdvanceRequest) {
					err := recoverAdvance(func() {
						r.Resolve(ctx, req.ID).AdvanceContext(ctx, req.Matcher)
					})
					done <- AdvanceResult{ID: req.ID, Err: err}
				}(req)
			}
		}

		for i := 0; i < started; i++ {
			select {
			case res := <-done:
				out <- res
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
