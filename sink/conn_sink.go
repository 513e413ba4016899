package sink

import (
	"context"

	"interop-lab/domain/event"
	"interop-lab/errors"
)

// ConnSink bridges the engine to a single window connection.
// The router writes into the buffered channel; the transport's push loop
// drains it towards the socket.
type ConnSink struct {
	Events chan event.ChannelEvent
}

func NewConnSink(bufferSize int) *ConnSink {
	return &ConnSink{Events: make(chan event.ChannelEvent, bufferSize)}
}

// Consume is called by the router inside its critical section, so it must
// never block. A full buffer means the window cannot keep up: the event is
// dropped for this recipient only and reported as a delivery fault.
func (s *ConnSink) Consume(ctx context.Context, e event.ChannelEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Backpressure: the delivery buffer is full.
		return errors.ErrSinkFull
	}
}
