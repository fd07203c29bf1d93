// Package broadcast provides type-safe, non-blocking fan-out of messages to
// in-process subscribers.
//
// The state machine uses it to publish committed transitions as a feed that
// consumers can range over without slowing the machine down:
//
//	feed := broadcast.NewMemoryBroadcaster[statemachine.Change[Phase]](16)
//	defer feed.Close()
//
//	sub := feed.Subscribe(ctx)
//	go func() {
//		for msg := range sub.Receive() {
//			fmt.Println(msg.Data.From, "->", msg.Data.To)
//		}
//	}()
//
// Broadcast never blocks. When a subscriber's buffer is full the message is
// dropped for that subscriber only and counted in Dropped. Subscribers are
// removed when their context is cancelled, when Close is called on them, or
// when the broadcaster is closed.
package broadcast
