package statemachine

// Builder provides a fluent API for building state machines.
type Builder[T comparable] struct {
	initial T
	states  []State[T]
	opts    []Option
}

// NewBuilder creates a new state machine builder.
func NewBuilder[T comparable](initial T) *Builder[T] {
	return &Builder[T]{initial: initial}
}

// WithState registers states in the order given.
func (b *Builder[T]) WithState(states ...State[T]) *Builder[T] {
	b.states = append(b.states, states...)
	return b
}

// WithLogger sets the lifecycle logger.
func (b *Builder[T]) WithLogger(l Logger) *Builder[T] {
	b.opts = append(b.opts, WithLogger(l))
	return b
}

// WithName sets the machine name.
func (b *Builder[T]) WithName(name string) *Builder[T] {
	b.opts = append(b.opts, WithName(name))
	return b
}

// OnChange subscribes a change handler.
func (b *Builder[T]) OnChange(h ChangeHandler[T]) *Builder[T] {
	b.opts = append(b.opts, WithOnChange(h))
	return b
}

// WithOption appends arbitrary options, e.g. WithBroadcaster.
func (b *Builder[T]) WithOption(opts ...Option) *Builder[T] {
	b.opts = append(b.opts, opts...)
	return b
}

// Build returns the constructed state machine.
func (b *Builder[T]) Build() (*Machine[T], error) {
	return New(b.initial, b.states, b.opts...)
}

// MustBuild is like Build but panics on configuration errors.
func (b *Builder[T]) MustBuild() *Machine[T] {
	return MustNew(b.initial, b.states, b.opts...)
}
