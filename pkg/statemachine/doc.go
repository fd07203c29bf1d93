// Package statemachine provides a generic finite state machine whose states
// own asynchronous enter and exit hooks.
//
// A Machine is built once from a fixed set of states, each identified by a
// comparable tag (usually a caller-defined enumeration). The machine tracks the
// current and previous state, runs hooks in a strict order and notifies
// subscribers after every committed transition:
//  1. OnExit of the current state, fully awaited
//  2. previous = current, current = target
//  3. OnEnter of the target state, fully awaited
//  4. change handlers in subscription order, then the optional broadcaster
//
// Switching to the tag that is already current is a no-op.
//
// # Usage
//
//	type Phase int
//
//	const (
//	    Init Phase = iota
//	    Running
//	    Ending
//	)
//
//	machine, err := statemachine.New(Init, []statemachine.State[Phase]{
//	    statemachine.NewState(Init, nil, nil),
//	    statemachine.NewState(Running, startWorkers, stopWorkers),
//	    statemachine.NewState(Ending, nil, nil),
//	}, statemachine.WithLogger(log))
//
//	_ = machine.Start(ctx)
//	_ = machine.SwitchState(ctx, Running)
//	_, _ = machine.TrySwitchToPrevious(ctx)
//	_ = machine.Dispose(ctx)
//
// Custom state types embed BaseState to get a tag, no-op hooks and access to
// the owning machine:
//
//	type LoadingState struct {
//	    statemachine.BaseState[Phase]
//	}
//
//	func (s *LoadingState) OnEnter(ctx context.Context) error {
//	    if err := load(ctx); err != nil {
//	        return err
//	    }
//	    return s.Machine().SwitchState(ctx, Running)
//	}
//
// # Error Handling
//
// Construction fails with *DuplicateStateError when two states share a tag and
// with *UnknownStateError when the initial tag is not registered. Transitions to
// unregistered tags fail with *UnknownStateError and change nothing:
//
//	if statemachine.IsUnknownStateError(err) { /* ... */ }
//
// Hook and handler errors are returned unwrapped and are never retried. An
// OnEnter failure does not roll back: the machine stays on the new state.
//
// # Concurrency
//
// One transition runs at a time; concurrent callers wait on an internal mutex.
// Hooks and change handlers receive a context that identifies the running
// transition. Calling SwitchState or TrySwitchToPrevious with that context
// queues the request until the in-flight transition has finished, so states
// can advance the machine from their own hooks without deadlocking. Dispose
// called that way returns ErrReentrantDispose.
//
// If a hook or handler fails, requests it queued are dropped: the call
// returns that error and the machine stays on the state the failure left it
// in. Among queued requests the first failure likewise drops the rest.
//
// Nesting is recognised only through the context. A hook that calls the
// machine with a fresh context, such as context.Background(), is treated as
// an outside caller and waits for the running transition, which is the hook
// itself:
//
//	func (s *LoadingState) OnEnter(ctx context.Context) error {
//	    go s.Machine().SwitchState(context.Background(), Idle) // runs after this transition
//	    return s.Machine().SwitchState(ctx, Running)           // queued, runs first
//	}
//
// Waiting on such a call from inside the hook deadlocks the machine.
//
// # Lifecycle
//
// A machine starts with no current state, becomes running after Run or Start
// and is terminal after Dispose: the registry is empty, so every transition
// fails with *UnknownStateError. Dispose keeps the previous state for
// diagnostics.
package statemachine
