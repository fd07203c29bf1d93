package statemachine_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

type phase int

const (
	phaseInit phase = iota
	phaseRunning
	phaseEnding
	phaseUnregistered
)

func (p phase) String() string {
	switch p {
	case phaseInit:
		return "init"
	case phaseRunning:
		return "running"
	case phaseEnding:
		return "ending"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// journal records hook calls, handler calls and log messages in order.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

func (j *journal) count(entry string) int {
	n := 0
	for _, e := range j.all() {
		if e == entry {
			n++
		}
	}
	return n
}

// InfoContext makes *journal a statemachine.Logger. Only the state attribute
// is kept so entries stay independent of the machine name.
func (j *journal) InfoContext(_ context.Context, msg string, args ...any) {
	entry := "log:" + msg
	for _, a := range args {
		if attr, ok := a.(slog.Attr); ok && attr.Key == "state" {
			entry += " " + attr.Value.String()
		}
	}
	j.add(entry)
}

// trackedState records its hook calls into a journal and can be told to fail.
type trackedState struct {
	statemachine.BaseState[phase]
	journal  *journal
	enterErr error
	exitErr  error
	onEnter  func(ctx context.Context) error
}

func newTracked(tag phase, j *journal) *trackedState {
	return &trackedState{BaseState: statemachine.NewBaseState(tag), journal: j}
}

func (s *trackedState) OnEnter(ctx context.Context) error {
	s.journal.add("enter:" + s.Tag().String())
	if s.onEnter != nil {
		if err := s.onEnter(ctx); err != nil {
			return err
		}
	}
	return s.enterErr
}

func (s *trackedState) OnExit(context.Context) error {
	s.journal.add("exit:" + s.Tag().String())
	return s.exitErr
}

func states(ss ...*trackedState) []statemachine.State[phase] {
	out := make([]statemachine.State[phase], 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}
