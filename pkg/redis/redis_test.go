package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit/pkg/redis"
)

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message any) *goredis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	return goredis.NewIntResult(1, f.err)
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", f.err)
}

type phase int

const (
	idle phase = iota
	busy
)

func (p phase) String() string {
	if p == busy {
		return "busy"
	}
	return "idle"
}

func TestChangePublisher(t *testing.T) {
	t.Parallel()

	t.Run("publishes transition record", func(t *testing.T) {
		t.Parallel()
		pub := &fakePublisher{}
		handler := redis.ChangePublisher[phase](pub, "fsm:test", "door")

		require.NoError(t, handler(context.Background(), busy))
		assert.Equal(t, "fsm:test", pub.channel)

		tr, err := redis.DecodeTransition(string(pub.payload))
		require.NoError(t, err)
		assert.Equal(t, "door", tr.Machine)
		assert.Equal(t, "busy", tr.State)
		assert.WithinDuration(t, time.Now(), tr.At, time.Minute)
	})

	t.Run("wraps publish errors", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection reset")
		handler := redis.ChangePublisher[phase](&fakePublisher{err: boom}, "fsm:test", "door")

		err := handler(context.Background(), idle)
		assert.ErrorIs(t, err, redis.ErrPublishFailed)
		assert.ErrorIs(t, err, boom)
	})
}

func TestDecodeTransition_Invalid(t *testing.T) {
	t.Parallel()
	_, err := redis.DecodeTransition("not json")
	assert.Error(t, err)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, redis.Healthcheck(fakePinger{})(context.Background()))

	err := redis.Healthcheck(fakePinger{err: errors.New("down")})(context.Background())
	assert.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrInvalidURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://localhost"})
		assert.ErrorIs(t, err, redis.ErrInvalidURL)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://127.0.0.1:1/0",
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: 2 * time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrNotReady)
	})
}

func TestConfigEnabled(t *testing.T) {
	t.Parallel()
	assert.False(t, redis.Config{}.Enabled())
	assert.True(t, redis.Config{ConnectionURL: "redis://localhost:6379/0"}.Enabled())
}
