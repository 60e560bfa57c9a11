// Package conctest implements a deterministic interleaving harness for
// cooperatively-scheduled asynchronous tasks that share memory.
//
// A test author names well-defined points inside a task ("labels") and
// drives the task from the test body by repeatedly requesting "advance
// task T until it reaches label L", observing shared state between
// advances. See Registry, TaskController and the matcher subpackage.
//
// Constructors
//   - NewRegistry(opts ...Option): the only entry point. Every test owns
//     exactly one Registry, created at test start and Close'd at test end.
//
// Rendezvous
// Every controlled task alternates strictly between waiting on a
// "proceed" signal from the driver and posting an "announced" label back
// to it. TaskController.Announce is called from inside a controlled
// task; TaskController.Advance is called from the driver. Two
// announcements happen per user label (see TaskController.Announce):
// the label reach, then a synthetic resume barrier.
//
// Isolation
// Registry.Isolate/Heal manage a set of id-prefixes standing in for
// simulated subtree faults. Guard evaluates that set on behalf of
// guarded network calls made from inside a controlled task.
//
// Scope
// The harness does not spawn tasks, run an asynchronous executor, or
// rewrite source code to inject controller parameters — it is the
// runtime contract those layers target, not the layers themselves.
package conctest
