package conctest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/ygrebnov/conctest/matcher"
)

// TaskController is the per-task rendezvous endpoint: one per controlled
// task, owning the two-channel handshake with it. Announce is called
// from inside the controlled task; Advance (and its convenience
// wrappers) are called from the driver.
//
// Both rendezvous channels are single-slot, matching the spec's
// single-producer/single-consumer ownership: the task holds the sending
// end of announced and the receiving end of proceed; the driver holds
// the reverse.
type TaskController struct {
	id            TaskID
	correlationID string
	registry      *Registry
	logger        zerolog.Logger

	proceed   chan struct{}
	announced chan Label

	advancing  atomic.Bool
	finishOnce sync.Once
	closeOnce  sync.Once
}

func newTaskController(id TaskID, correlationID string, r *Registry) *TaskController {
	return &TaskController{
		id:            id,
		correlationID: correlationID,
		registry:      r,
		logger:        withTask(r.cfg.Logger, id, correlationID),
		proceed:       make(chan struct{}, 1),
		announced:     make(chan Label, 1),
	}
}

// ID returns the controller's hierarchical task id.
func (c *TaskController) ID() TaskID { return c.id }

// IsIsolated asks the Registry whether any isolated prefix is a prefix
// of this controller's id — a shallow query used by Guard.
func (c *TaskController) IsIsolated() bool {
	return c.registry.IsIsolated(c.id)
}

// Announce is called from inside a controlled task. It blocks until the
// driver signals proceed, posts label on the announced channel, blocks
// again until the next proceed, then posts the synthetic "<label> block"
// announcement — the resume barrier that holds the task at the same
// program point while the driver performs its post-label assertions.
//
// Announce returns ErrRegistryClosed if the registry was torn down
// (Close) while the task was suspended — the only way a controlled
// task observes teardown, since the protocol is otherwise
// cancellation-oblivious.
func (c *TaskController) Announce(label Label) error {
	if isBlockLabel(label) {
		return fmt.Errorf("%w: %q", ErrReservedLabel, label)
	}
	if err := c.roundTrip(label); err != nil {
		return err
	}
	return c.roundTrip(blockLabel(label))
}

func (c *TaskController) roundTrip(l Label) error {
	if _, ok := <-c.proceed; !ok {
		return ErrRegistryClosed
	}
	c.announced <- l
	return nil
}

// Advance pumps the task by repeatedly sending proceed and receiving one
// announced label, feeding each non-block label to m.Observe, until
// m.Satisfied() returns true. Unmatched labels are consumed and
// discarded; block labels are skipped entirely.
//
// Advance panics if the task ends (its controller's channels are closed)
// before the matcher fires, or if ctx is cancelled mid-rendezvous — both
// are the "fatal, test-setup-bug" conditions of the design notes. Callers
// that fan advances out across goroutines (see AdvanceAll) must recover
// these panics at the goroutine boundary to convert them into errors.
func (c *TaskController) Advance(m matcher.Matcher) {
	c.AdvanceContext(context.Background(), m)
}

// AdvanceContext is Advance with an explicit context, used internally by
// driver-side composition (AdvanceAll, AdvanceStream) to let concurrent
// advances on other task ids unblock this one's wait. A cancelled ctx
// mid-rendezvous is cancellation-oblivious per the design notes: the
// channel may be left half-consumed and this is treated as a fatal
// test-setup bug, not a recoverable condition.
func (c *TaskController) AdvanceContext(ctx context.Context, m matcher.Matcher) {
	if !c.advancing.CompareAndSwap(false, true) {
		panic(fmt.Errorf("%w: %q", ErrConcurrentAdvance, c.id))
	}
	defer c.advancing.Store(false)

	c.registry.mu.RLock()
	closed := c.registry.closed
	c.registry.mu.RUnlock()
	if closed {
		panic(fmt.Errorf("%w: advance %q", ErrRegistryClosed, c.id))
	}

	start := time.Now()
	labelsObserved := int64(0)

	for {
		select {
		case c.proceed <- struct{}{}:
		case <-ctx.Done():
			panic(newLabelError(c.id, m.String(), ctx.Err()))
		}

		var label Label
		var ok bool
		select {
		case label, ok = <-c.announced:
		case <-ctx.Done():
			panic(newLabelError(c.id, m.String(), ctx.Err()))
		}

		if !ok {
			panic(newLabelError(c.id, m.String(), ErrTaskEnded))
		}
		if isBlockLabel(label) {
			continue
		}

		labelsObserved++
		m.Observe(string(label))
		if m.Satisfied() {
			break
		}
	}

	c.registry.cfg.Metrics.Counter("conctest_advances_total").Add(1)
	c.registry.cfg.Metrics.Counter("conctest_labels_observed_total").Add(labelsObserved)
	c.registry.cfg.Metrics.Histogram("conctest_advance_wait_seconds").Record(time.Since(start).Seconds())

	c.logger.Debug().
		Str("matcher", m.String()).
		Int64("labels_observed", labelsObserved).
		Dur("wait", time.Since(start)).
		Msg(logEventAdvance)
}

// AdvanceTo is a convenience wrapping Advance(matcher.Exact(label)).
func (c *TaskController) AdvanceTo(label string) {
	c.Advance(matcher.Exact(label))
}

// AdvanceToEnd is equivalent to AdvanceTo("END").
func (c *TaskController) AdvanceToEnd() {
	c.AdvanceTo(string(LabelEnd))
}

// Finish marks the controller's task body as complete, closing the
// announced channel so that a driver's current or future Advance
// observes closure — and panics with a LabelError wrapping ErrTaskEnded
// — instead of blocking forever. The (out-of-scope) syntactic layer that
// wraps a controlled task body is expected to `defer controller.Finish()`
// around it, mirroring how the original Rust implementation's channel
// sender is dropped when the task's future completes.
//
// Finish is safe to call more than once (e.g. both by the normal
// completion path after announcing END, and by a deferred recover on
// panic); only the first call has effect.
func (c *TaskController) Finish() {
	c.finishOnce.Do(func() { close(c.announced) })
}

// close unblocks any task still suspended in Announce by closing proceed,
// and ensures announced is closed (idempotent with Finish). Called only
// from Registry.Close's ordered teardown, at test end.
func (c *TaskController) close() {
	c.closeOnce.Do(func() { close(c.proceed) })
	c.Finish()
}
