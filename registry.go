package conctest

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Registry is the process-wide (per-test) directory mapping hierarchical
// task ids to TaskControllers. It resolves late-bound lookups — a driver
// may request a task that has not yet been registered and block until it
// is — and maintains the set of isolated id-prefixes used for subtree
// fault injection.
//
// A test creates exactly one Registry at entry (via NewRegistry) and
// Close's it at exit. All mutation is serialized by a single exclusive
// lock; read queries (IsIsolated) take the shared lock.
type Registry struct {
	cfg *Config

	mu          sync.RWMutex
	controllers map[TaskID]*TaskController
	waiters     map[TaskID]chan *TaskController
	isolated    []TaskID

	closeOnce sync.Once
	closed    bool
}

func newRegistry(cfg *Config) *Registry {
	r := &Registry{
		cfg:         cfg,
		controllers: make(map[TaskID]*TaskController),
		waiters:     make(map[TaskID]chan *TaskController),
	}

	root := newTaskController(RootID, cfg.IDGenerator(), r)
	r.controllers[RootID] = root

	return r
}

// Root returns the controller for the driver task itself (id ""). It is
// registered but never advanced.
func (r *Registry) Root() *TaskController {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.controllers[RootID]
}

// Register inserts controller into the map under its own id and, if a
// waiter is pending for that id, fulfils it and removes the waiter
// atomically, all under the exclusive lock. Register panics with
// ErrAlreadyRegistered if the id is already present.
func (r *Registry) Register(controller *TaskController) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		panic(fmt.Errorf("%w: register %q", ErrRegistryClosed, controller.id))
	}
	if _, exists := r.controllers[controller.id]; exists {
		panic(fmt.Errorf("%w: %q", ErrAlreadyRegistered, controller.id))
	}

	r.controllers[controller.id] = controller

	if w, pending := r.waiters[controller.id]; pending {
		w <- controller
		delete(r.waiters, controller.id)
	}

	r.cfg.Logger.Debug().Str("task_id", string(controller.id)).Msg(logEventRegister)
}

// Resolve returns the controller for id. If absent, it installs a
// one-shot waiter keyed by id and suspends the caller until Register
// delivers one, or ctx is cancelled, or the Registry is Closed.
//
// It is a fatal error (panic, ErrDuplicateWait) to Resolve the same id
// twice concurrently — two drivers racing for the same task is a
// test-setup bug, detected immediately rather than silently queueing.
func (r *Registry) Resolve(ctx context.Context, id TaskID) *TaskController {
	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		panic(fmt.Errorf("%w: resolve %q", ErrRegistryClosed, id))
	}

	if c, ok := r.controllers[id]; ok {
		r.mu.Unlock()
		return c
	}

	if _, pending := r.waiters[id]; pending {
		r.mu.Unlock()
		panic(fmt.Errorf("%w: %q", ErrDuplicateWait, id))
	}

	wait := make(chan *TaskController, 1)
	r.waiters[id] = wait
	r.cfg.Logger.Debug().Str("task_id", string(id)).Msg(logEventResolve)

	// Resolve releases the exclusive lock before suspending on the
	// waiter, per the design notes' ordering/fairness requirement.
	r.mu.Unlock()

	select {
	case c, ok := <-wait:
		if !ok {
			panic(fmt.Errorf("%w: resolve %q", ErrRegistryClosed, id))
		}
		return c
	case <-ctx.Done():
		r.mu.Lock()
		delete(r.waiters, id)
		r.mu.Unlock()
		panic(fmt.Errorf("%w: resolve %q: %v", ErrRegistryClosed, id, ctx.Err()))
	}
}

// Isolate appends id to the isolated-prefix list. Isolating an ancestor
// id automatically isolates every descendant, via prefix containment
// (see IsIsolated) — the intended model of a subtree fault.
func (r *Registry) Isolate(id TaskID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.isolated = append(r.isolated, id)
	r.cfg.Metrics.UpDownCounter("conctest_isolated_prefixes").Add(1)
	r.cfg.Logger.Info().Str("task_id", string(id)).Msg(logEventIsolate)
}

// Heal removes from the isolated-prefix list every entry p such that id
// has p as a prefix — healing a whole subtree fault at once.
func (r *Registry) Heal(id TaskID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.isolated[:0]
	healed := 0
	for _, p := range r.isolated {
		if id.hasPrefix(p) {
			healed++
			continue
		}
		kept = append(kept, p)
	}
	r.isolated = kept

	if healed > 0 {
		r.cfg.Metrics.UpDownCounter("conctest_isolated_prefixes").Add(-int64(healed))
	}
	r.cfg.Logger.Info().Str("task_id", string(id)).Int("healed", healed).Msg(logEventHeal)
}

// IsIsolated reports whether any entry in the isolated-prefix list is a
// prefix of id.
func (r *Registry) IsIsolated(id TaskID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.isolated {
		if id.hasPrefix(p) {
			return true
		}
	}
	return false
}

// Logger returns the registry's configured structured logger, for use by
// code that needs to log outside the controller/registry call sites that
// already carry one.
func (r *Registry) Logger() zerolog.Logger { return r.cfg.Logger }
