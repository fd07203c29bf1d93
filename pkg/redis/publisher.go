package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

// Publisher is the part of the go-redis client used to publish transitions.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Transition is the JSON record published for every committed transition.
type Transition struct {
	Machine string    `json:"machine"`
	State   string    `json:"state"`
	At      time.Time `json:"at"`
}

// ChangePublisher returns a change handler that publishes a Transition record
// to channel. Tags are rendered with fmt, so enumerations with a String
// method appear by name. Publish failures are returned to the caller of the
// transition.
//
//	machine.Subscribe(redis.ChangePublisher[Phase](client, cfg.Channel, machine.Name()))
func ChangePublisher[T comparable](client Publisher, channel, machine string) statemachine.ChangeHandler[T] {
	return func(ctx context.Context, tag T) error {
		payload, err := json.Marshal(Transition{
			Machine: machine,
			State:   fmt.Sprint(tag),
			At:      time.Now().UTC(),
		})
		if err != nil {
			return errors.Join(ErrPublishFailed, err)
		}
		if err := client.Publish(ctx, channel, payload).Err(); err != nil {
			return errors.Join(ErrPublishFailed, err)
		}
		return nil
	}
}

// DecodeTransition parses a payload received from the transitions channel.
func DecodeTransition(payload string) (Transition, error) {
	var t Transition
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return Transition{}, err
	}
	return t, nil
}
