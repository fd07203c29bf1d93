package statemachine

import (
	"github.com/dmitrymomot/fsmkit/pkg/broadcast"
)

// Option configures a state machine during construction.
type Option func(*config) error

type config struct {
	name        string
	logger      Logger
	handlers    []any // ChangeHandler[T], checked against T in New
	broadcaster any   // broadcast.Broadcaster[Change[T]], checked against T in New
}

// WithLogger sets the lifecycle logger. Nil loggers are ignored.
func WithLogger(l Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithName sets the machine name used in log records and change events.
// Without it a random UUID is used.
func WithName(name string) Option {
	return func(c *config) error {
		if name != "" {
			c.name = name
		}
		return nil
	}
}

// WithOnChange subscribes a handler to committed transitions.
// Handlers run in the order they were added.
func WithOnChange[T comparable](h ChangeHandler[T]) Option {
	return func(c *config) error {
		if h != nil {
			c.handlers = append(c.handlers, h)
		}
		return nil
	}
}

// WithBroadcaster publishes every committed transition as a Change message.
// Publishing never blocks the transition; slow consumers miss messages.
func WithBroadcaster[T comparable](b broadcast.Broadcaster[Change[T]]) Option {
	return func(c *config) error {
		if b != nil {
			c.broadcaster = b
		}
		return nil
	}
}
