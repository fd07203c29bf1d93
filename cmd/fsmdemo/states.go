package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

type phase int

const (
	phaseInit phase = iota
	phaseRunning
	phaseEnding
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
		return "unknown"
	}
}

// stepState spends delay in OnEnter and then moves the machine to next.
// The last step has no successor and stays entered until disposal.
type stepState struct {
	statemachine.BaseState[phase]
	delay   time.Duration
	next    phase
	hasNext bool
	log     *slog.Logger
}

func newStep(tag phase, delay time.Duration, l *slog.Logger) *stepState {
	return &stepState{
		BaseState: statemachine.NewBaseState(tag),
		delay:     delay,
		log:       l.With(logger.Component("step")),
	}
}

func (s *stepState) then(next phase) *stepState {
	s.next, s.hasNext = next, true
	return s
}

func (s *stepState) OnEnter(ctx context.Context) error {
	start := time.Now()
	if err := sleep(ctx, s.delay); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "step work done", logger.State(s.Tag()), logger.Duration(time.Since(start)))

	if !s.hasNext {
		return nil
	}
	return s.Machine().SwitchState(ctx, s.next)
}

func (s *stepState) OnExit(ctx context.Context) error {
	return sleep(ctx, s.delay/2)
}

func newMachine(delay time.Duration, l *slog.Logger, opts ...statemachine.Option) (*statemachine.Machine[phase], error) {
	return statemachine.NewBuilder(phaseInit).
		WithState(
			newStep(phaseInit, delay, l).then(phaseRunning),
			newStep(phaseRunning, delay, l).then(phaseEnding),
			newStep(phaseEnding, delay, l),
		).
		WithLogger(l).
		WithOption(opts...).
		Build()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
