package broadcast

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Broadcast after the broadcaster has been closed.
var ErrClosed = errors.New("broadcast: broadcaster is closed")

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on. It is closed
	// when the subscriber or the broadcaster is closed.
	Receive() <-chan Message[T]

	// Dropped reports how many messages were discarded because the
	// subscriber's buffer was full.
	Dropped() uint64

	// Close is idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers without blocking the sender.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber that lives until ctx is cancelled,
	// Close is called on it, or the broadcaster is closed.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers msg to every subscriber with free buffer space.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close closes all subscribers. Subscribe afterwards returns a closed subscriber.
	Close() error
}

type subscriber[T any] struct {
	ch      chan Message[T]
	done    chan struct{}
	dropped atomic.Uint64
	closed  bool
	mu      sync.RWMutex
	detach  func()
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		ch:   make(chan Message[T], bufferSize),
		done: make(chan struct{}),
	}
}

func (s *subscriber[T]) Receive() <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *subscriber[T]) Close() error {
	if s.shutdown() && s.detach != nil {
		s.detach()
	}
	return nil
}

// shutdown closes the channel and reports whether this call did it.
func (s *subscriber[T]) shutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	close(s.ch)
	close(s.done)
	s.closed = true
	return true
}

func (s *subscriber[T]) send(msg Message[T]) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	select {
	case s.ch <- msg:
	default:
		s.dropped.Add(1)
	}
}
