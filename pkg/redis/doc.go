// Package redis connects to Redis and publishes state machine transitions to
// a pub/sub channel so other processes can follow a machine's progress.
//
// It wraps github.com/redis/go-redis/v9 and adds:
//
//   - Connect, which pings the server with retries before handing out a client.
//   - Healthcheck, a liveness probe built on PING.
//   - ChangePublisher, a statemachine.ChangeHandler publishing a JSON
//     Transition record for every committed transition.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	machine.Subscribe(redis.ChangePublisher[Phase](client, cfg.Channel, machine.Name()))
//
// Consumers subscribe to the same channel and decode payloads with
// DecodeTransition.
package redis
