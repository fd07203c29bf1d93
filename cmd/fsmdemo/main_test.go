package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit/pkg/broadcast"
	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

func TestMachineAdvancesToEnding(t *testing.T) {
	t.Parallel()

	feed := broadcast.NewMemoryBroadcaster[statemachine.Change[phase]](8)
	defer feed.Close()
	sub := feed.Subscribe(context.Background())

	machine, err := newMachine(time.Millisecond, logger.Discard(), statemachine.WithBroadcaster[phase](feed))
	require.NoError(t, err)
	assert.Equal(t, []phase{phaseInit, phaseRunning, phaseEnding}, machine.Tags())

	require.NoError(t, machine.Start(context.Background()))

	tag, ok := machine.CurrentTag()
	require.True(t, ok)
	assert.Equal(t, phaseEnding, tag)
	prev, ok := machine.Previous()
	require.True(t, ok)
	assert.Equal(t, phaseRunning, prev.Tag())

	var seen []phase
	for range 3 {
		seen = append(seen, (<-sub.Receive()).Data.To)
	}
	assert.Equal(t, []phase{phaseInit, phaseRunning, phaseEnding}, seen)
}

func TestDriveDisposes(t *testing.T) {
	t.Parallel()

	machine, err := newMachine(0, logger.Discard())
	require.NoError(t, err)

	require.NoError(t, drive(context.Background(), machine, time.Second))

	_, ok := machine.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, machine.Len())
}

func TestDriveCancelled(t *testing.T) {
	t.Parallel()

	machine, err := newMachine(time.Hour, logger.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = drive(ctx, machine, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, machine.Len())
}

func TestSleep(t *testing.T) {
	t.Parallel()

	assert.NoError(t, sleep(context.Background(), 0))
	assert.NoError(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
}

func TestWatchEndsWhenFeedCloses(t *testing.T) {
	t.Parallel()

	feed := broadcast.NewMemoryBroadcaster[statemachine.Change[phase]](4)
	ctx := context.Background()
	sub := feed.Subscribe(ctx)

	require.NoError(t, feed.Broadcast(ctx, broadcast.Message[statemachine.Change[phase]]{
		Data: statemachine.Change[phase]{Machine: "test", To: phaseInit, Initial: true},
	}))

	done := make(chan error, 1)
	go func() { done <- watch(ctx, sub, logger.Discard()) }()
	require.NoError(t, feed.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not return after feed was closed")
	}
}
