package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"interop-lab/domain"
	"interop-lab/domain/event"
	"interop-lab/errors"
)

// Broadcast routes a context to the target channel's members and to the
// global-channel snoopers.
//
// Algorithm, executed as one atomic step:
//  1. resolve the channel (NotFoundError when unknown);
//  2. update the context cache (silent no-op on the default channel);
//  3. deliver to every member of the channel except the sender, in each
//     recipient's listener-registration order;
//  4. independently, deliver to global-channel listeners of every
//     connected window except the sender, whatever channel they joined.
//
// Zero recipients is a success. A delivery fault on one listener never
// blocks the others and never fails the call: the broadcasting window only
// sees NotFoundError for an unknown channel.
func (e *Engine) Broadcast(senderID domain.WindowID, channelID string, context domain.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	channel, err := e.registry.Lookup(channelID)
	if err != nil {
		return err
	}

	e.cache.Set(channelID, context)

	broadcast := event.ContextBroadcast{
		ID:      uuid.New(),
		Channel: channel,
		Sender:  senderID,
		Context: context,
		At:      time.Now().UTC(),
	}

	// Target channel members, sender excluded. No ordering guarantee is
	// promised across recipient windows, only within one window's handles.
	for _, recipientID := range e.membership.MembersOf(channelID) {
		if recipientID == senderID {
			continue
		}
		e.deliver(recipientID, channelID, broadcast)
	}

	// Global snooping: every connected window except the sender receives
	// the same event, originating channel in the payload, on its
	// global-channel listeners, regardless of the channel it joined.
	// This also covers a broadcast aimed directly at the global id: the
	// global channel has no members, so the loop above delivered nothing.
	for _, recipientID := range e.membership.ConnectedWindows() {
		if recipientID == senderID {
			continue
		}
		e.deliver(recipientID, domain.GlobalChannelID, broadcast)
	}

	e.stats.IncrBroadcasts()
	e.journal(broadcast)
	return nil
}

// GetCurrentContext returns the channel's cached context, or nil when the
// channel is stateless, was never broadcast on, or was cleared.
func (e *Engine) GetCurrentContext(channelID string) (*domain.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.registry.Lookup(channelID); err != nil {
		return nil, err
	}
	return e.cache.Get(channelID), nil
}

// deliver pushes one event per listener handle the recipient registered on
// listenChannelID. Faults are isolated per recipient: counted, logged at
// debug level, and never propagated to the broadcaster.
func (e *Engine) deliver(recipientID domain.WindowID, listenChannelID string, broadcast event.ContextBroadcast) {
	handles := e.dispatcher.HandlesFor(listenChannelID, recipientID, event.TypeBroadcast)
	if len(handles) == 0 {
		return
	}

	sink, connected := e.membership.SinkFor(recipientID)
	if !connected {
		// The window vanished between recipient resolution and delivery.
		// At-most-once: the event is dropped for this recipient only.
		e.fault(recipientID, listenChannelID, errors.ErrNotConnected)
		return
	}

	for _, handle := range handles {
		delivery := broadcast
		delivery.Handle = handle
		if err := sink.Consume(context.Background(), delivery); err != nil {
			e.fault(recipientID, listenChannelID, err)
			continue
		}
		e.stats.AddDeliveries(1)
	}
}

func (e *Engine) fault(recipientID domain.WindowID, channelID string, reason error) {
	e.stats.IncrDeliveryFaults()
	fault := errors.DeliveryFault{
		Window:  recipientID.String(),
		Channel: channelID,
		Reason:  reason,
	}
	e.log.Debug("Delivery fault", "error", fault)
}

// journal hands the routed broadcast to the journal worker without ever
// blocking the routing step.
func (e *Engine) journal(broadcast event.ContextBroadcast) {
	select {
	case e.journalEvents <- broadcast:
	default:
		e.stats.IncrJournalDrops()
		e.log.Debug("Journal buffer full, dropping entry", "broadcast_id", broadcast.ID)
	}
}

func errNotConnected(windowID domain.WindowID) error {
	return fmt.Errorf("%w: %s", errors.ErrNotConnected, windowID)
}
