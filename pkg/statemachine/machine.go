package statemachine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/fsmkit/pkg/broadcast"
	"github.com/dmitrymomot/fsmkit/pkg/logger"
)

// Machine is a registry of states with a single current state.
// Transitions are serialized: at most one is in flight at any time.
type Machine[T comparable] struct {
	name        string
	initial     T
	log         Logger
	broadcaster broadcast.Broadcaster[Change[T]]
	key         *flightKey

	// mu is held for the whole duration of a transition or Dispose.
	mu sync.Mutex

	stateMu  sync.RWMutex
	states   map[T]State[T]
	order    []T
	current  State[T]
	previous State[T]
	handlers []ChangeHandler[T]
}

var _ Switcher[int] = (*Machine[int])(nil)

// flightKey marks contexts passed to hooks so nested calls can be detected.
type flightKey struct{ _ byte }

type request[T comparable] struct {
	tag        T
	toPrevious bool
}

// flight collects transition requests made from inside hooks and change
// handlers while the owning call holds the machine lock.
type flight[T comparable] struct {
	mu    sync.Mutex
	done  bool
	queue []request[T]
}

func (f *flight[T]) push(r request[T]) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return false
	}
	f.queue = append(f.queue, r)
	return true
}

func (f *flight[T]) pop() (request[T], bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		f.done = true
		return request[T]{}, false
	}
	r := f.queue[0]
	f.queue = f.queue[1:]
	return r, true
}

// discard drops queued requests and rejects new ones.
func (f *flight[T]) discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = true
	f.queue = nil
}

func (f *flight[T]) active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.done
}

// New creates a machine, registering states in the order given.
// It fails with *DuplicateStateError when two states share a tag and with
// *UnknownStateError when initial is not among the registered tags.
func New[T comparable](initial T, states []State[T], opts ...Option) (*Machine[T], error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	m := &Machine[T]{
		name:    cfg.name,
		initial: initial,
		log:     cfg.logger,
		key:     &flightKey{},
		states:  make(map[T]State[T], len(states)),
		order:   make([]T, 0, len(states)),
	}
	if m.name == "" {
		m.name = uuid.NewString()
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}

	for _, h := range cfg.handlers {
		handler, ok := h.(ChangeHandler[T])
		if !ok {
			return nil, fmt.Errorf("%w: change handler %T", ErrOptionTypeMismatch, h)
		}
		m.handlers = append(m.handlers, handler)
	}
	if cfg.broadcaster != nil {
		b, ok := cfg.broadcaster.(broadcast.Broadcaster[Change[T]])
		if !ok {
			return nil, fmt.Errorf("%w: broadcaster %T", ErrOptionTypeMismatch, cfg.broadcaster)
		}
		m.broadcaster = b
	}

	for _, s := range states {
		if err := m.register(s); err != nil {
			return nil, err
		}
	}

	if _, ok := m.states[initial]; !ok {
		return nil, NewUnknownStateError(initial)
	}

	return m, nil
}

// MustNew is like New but panics on configuration errors. It is meant for
// machines built once at program start.
func MustNew[T comparable](initial T, states []State[T], opts ...Option) *Machine[T] {
	m, err := New(initial, states, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

func (m *Machine[T]) register(s State[T]) error {
	if s == nil {
		return ErrNilState
	}
	if aware, ok := s.(MachineAware[T]); ok {
		aware.AttachMachine(m)
	}

	tag := s.Tag()
	if _, exists := m.states[tag]; exists {
		return NewDuplicateStateError(tag)
	}
	m.states[tag] = s
	m.order = append(m.order, tag)
	return nil
}

// Name returns the machine name used in logs and change events.
func (m *Machine[T]) Name() string {
	return m.name
}

// Run performs the first entry. It behaves exactly like SwitchState.
func (m *Machine[T]) Run(ctx context.Context, tag T) error {
	return m.SwitchState(ctx, tag)
}

// Start runs the machine with the initial tag given to New.
func (m *Machine[T]) Start(ctx context.Context) error {
	return m.Run(ctx, m.initial)
}

// SwitchState exits the current state, enters the state registered for tag and
// notifies change handlers. Switching to the current tag does nothing.
//
// An unknown tag returns *UnknownStateError and leaves the machine untouched.
// Hook and handler errors are returned as-is. A failing OnExit keeps the
// current state; a failing OnEnter leaves the machine on the new state.
//
// Called from a hook or handler with the context the hook received, the
// request is queued and runs after the in-flight transition completes, before
// the outermost call returns. If the in-flight transition fails, queued
// requests are dropped and the machine stays where the failure left it.
// A hook must pass on its own ctx: a call with any other context waits for
// the running transition, and a hook blocking on that call never returns.
func (m *Machine[T]) SwitchState(ctx context.Context, tag T) error {
	return m.submit(ctx, request[T]{tag: tag})
}

// TrySwitchToPrevious switches back to the previous state. It returns false
// when no transition has happened yet. Two consecutive calls toggle between
// the two most recent states.
func (m *Machine[T]) TrySwitchToPrevious(ctx context.Context) (bool, error) {
	if _, ok := m.Previous(); !ok {
		return false, nil
	}
	return true, m.submit(ctx, request[T]{toPrevious: true})
}

// Dispose clears the registry and exits the current state. The current state
// is cleared even when OnExit fails; the previous state is kept for
// diagnostics. Every later transition fails with *UnknownStateError.
func (m *Machine[T]) Dispose(ctx context.Context) error {
	if f, ok := ctx.Value(m.key).(*flight[T]); ok && f.active() {
		return ErrReentrantDispose
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stateMu.Lock()
	clear(m.states)
	m.order = m.order[:0]
	current := m.current
	m.stateMu.Unlock()

	f := &flight[T]{}
	ctx = context.WithValue(ctx, m.key, f)

	var err error
	if current != nil {
		err = m.exit(ctx, current)
	}

	m.stateMu.Lock()
	m.current = nil
	m.stateMu.Unlock()

	if err != nil {
		f.discard()
	} else {
		err = m.drain(ctx, f)
	}

	m.log.InfoContext(ctx, "disposed", logger.Machine(m.name))
	return err
}

func (m *Machine[T]) submit(ctx context.Context, req request[T]) error {
	if f, ok := ctx.Value(m.key).(*flight[T]); ok && f.push(req) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	f := &flight[T]{}
	ctx = context.WithValue(ctx, m.key, f)

	if err := m.transition(ctx, req); err != nil {
		f.discard()
		return err
	}
	return m.drain(ctx, f)
}

// drain runs queued requests in order. The first failure discards the rest
// of the queue and is returned.
func (m *Machine[T]) drain(ctx context.Context, f *flight[T]) error {
	for {
		req, ok := f.pop()
		if !ok {
			return nil
		}
		if err := m.transition(ctx, req); err != nil {
			f.discard()
			return err
		}
	}
}

func (m *Machine[T]) transition(ctx context.Context, req request[T]) error {
	m.stateMu.RLock()
	current := m.current
	target := req.tag
	if req.toPrevious {
		if m.previous == nil {
			m.stateMu.RUnlock()
			return nil
		}
		target = m.previous.Tag()
	}
	next, ok := m.states[target]
	handlers := m.handlers
	m.stateMu.RUnlock()

	if current != nil && current.Tag() == target {
		return nil
	}
	if !ok {
		return NewUnknownStateError(target)
	}

	if current != nil {
		if err := m.exit(ctx, current); err != nil {
			return err
		}
	}

	m.stateMu.Lock()
	m.previous = current
	m.current = next
	m.stateMu.Unlock()

	if err := m.enter(ctx, next); err != nil {
		return err
	}

	for _, h := range handlers {
		if err := h(ctx, target); err != nil {
			return err
		}
	}

	change := Change[T]{Machine: m.name, To: target, Initial: current == nil, At: time.Now()}
	args := []any{logger.Machine(m.name), logger.State(target)}
	if current != nil {
		change.From = current.Tag()
		args = append(args, logger.PreviousState(change.From))
	}
	if m.broadcaster != nil {
		_ = m.broadcaster.Broadcast(ctx, broadcast.Message[Change[T]]{Data: change})
	}

	m.log.InfoContext(ctx, "switched state", args...)
	return nil
}

func (m *Machine[T]) enter(ctx context.Context, s State[T]) error {
	m.log.InfoContext(ctx, "entering state", logger.Machine(m.name), logger.State(s.Tag()))
	if err := s.OnEnter(ctx); err != nil {
		return err
	}
	m.log.InfoContext(ctx, "entered state", logger.Machine(m.name), logger.State(s.Tag()))
	return nil
}

func (m *Machine[T]) exit(ctx context.Context, s State[T]) error {
	m.log.InfoContext(ctx, "exiting state", logger.Machine(m.name), logger.State(s.Tag()))
	if err := s.OnExit(ctx); err != nil {
		return err
	}
	m.log.InfoContext(ctx, "exited state", logger.Machine(m.name), logger.State(s.Tag()))
	return nil
}

// Subscribe adds a change handler after construction.
func (m *Machine[T]) Subscribe(h ChangeHandler[T]) {
	if h == nil {
		return
	}
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.handlers = append(m.handlers, h)
}

// Current returns the entered state, if any.
func (m *Machine[T]) Current() (State[T], bool) {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.current, m.current != nil
}

// Previous returns the state that was current before the last transition.
func (m *Machine[T]) Previous() (State[T], bool) {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.previous, m.previous != nil
}

// CurrentTag returns the tag of the entered state, if any.
func (m *Machine[T]) CurrentTag() (T, bool) {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	if m.current == nil {
		var zero T
		return zero, false
	}
	return m.current.Tag(), true
}

// Has reports whether a state is registered for tag.
func (m *Machine[T]) Has(tag T) bool {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	_, ok := m.states[tag]
	return ok
}

// Len returns the number of registered states.
func (m *Machine[T]) Len() int {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return len(m.states)
}

// Tags returns registered tags in registration order.
func (m *Machine[T]) Tags() []T {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return slices.Clone(m.order)
}
