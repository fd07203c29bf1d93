package statemachine

import (
	"context"
	"time"
)

// State is a unit of behavior identified by a comparable tag.
// OnEnter and OnExit may block for as long as they need; the machine waits for
// them before the transition is considered complete.
type State[T comparable] interface {
	Tag() T
	OnEnter(ctx context.Context) error
	OnExit(ctx context.Context) error
}

// Switcher is the view of a machine handed to its states.
// It lets a state request further transitions without owning the machine.
type Switcher[T comparable] interface {
	SwitchState(ctx context.Context, tag T) error
	TrySwitchToPrevious(ctx context.Context) (bool, error)
	CurrentTag() (T, bool)
}

// MachineAware is implemented by states that want a reference to the machine
// they are registered with. The machine calls AttachMachine during registration.
type MachineAware[T comparable] interface {
	AttachMachine(m Switcher[T])
}

// Logger records lifecycle messages. *slog.Logger satisfies it.
type Logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
}

// ChangeHandler is invoked synchronously after every committed transition.
// A returned error is propagated to the caller of the transition.
type ChangeHandler[T comparable] func(ctx context.Context, tag T) error

// Change describes a committed transition as published to a broadcaster.
type Change[T comparable] struct {
	Machine string
	From    T
	To      T
	Initial bool // no state was entered before this transition
	At      time.Time
}

// BaseState provides a fixed tag, no-op hooks and the machine back-reference.
// Embed it by value and register the enclosing struct by pointer:
//
//	type IdleState struct {
//	    statemachine.BaseState[Phase]
//	}
//
//	idle := &IdleState{BaseState: statemachine.NewBaseState(PhaseIdle)}
type BaseState[T comparable] struct {
	tag     T
	machine Switcher[T]
}

// NewBaseState returns a BaseState for the given tag.
func NewBaseState[T comparable](tag T) BaseState[T] {
	return BaseState[T]{tag: tag}
}

func (s *BaseState[T]) Tag() T {
	return s.tag
}

func (s *BaseState[T]) OnEnter(context.Context) error { return nil }

func (s *BaseState[T]) OnExit(context.Context) error { return nil }

// AttachMachine stores the owning machine. Registration overwrites any
// previous reference.
func (s *BaseState[T]) AttachMachine(m Switcher[T]) {
	s.machine = m
}

// Machine returns the machine the state is registered with, or nil.
// Hooks that switch states must pass on the ctx they received:
//
//	func (s *LoadingState) OnEnter(ctx context.Context) error {
//	    return s.Machine().SwitchState(ctx, Running) // not context.Background()
//	}
func (s *BaseState[T]) Machine() Switcher[T] {
	return s.machine
}

// HookFunc is the signature of closure-based enter and exit hooks.
type HookFunc func(ctx context.Context) error

type funcState[T comparable] struct {
	BaseState[T]
	enter HookFunc
	exit  HookFunc
}

// NewState builds a state from closures. Nil hooks are no-ops.
func NewState[T comparable](tag T, enter, exit HookFunc) State[T] {
	return &funcState[T]{
		BaseState: NewBaseState(tag),
		enter:     enter,
		exit:      exit,
	}
}

func (s *funcState[T]) OnEnter(ctx context.Context) error {
	if s.enter == nil {
		return nil
	}
	return s.enter(ctx)
}

func (s *funcState[T]) OnExit(ctx context.Context) error {
	if s.exit == nil {
		return nil
	}
	return s.exit(ctx)
}
