package runtime

import (
	"sync"

	"github.com/samber/lo"

	"interop-lab/domain"
	"interop-lab/domain/event"
)

// listenerKey scopes a listener registration list.
type listenerKey struct {
	channelID string
	windowID  domain.WindowID
	eventType event.EventType
}

// registration is one listener handle. Handles are opaque strings supplied
// by the window; removal is a value-equality search, never identity-based.
type registration struct {
	handle string
}

// EventDispatcher owns the ordered listener registrations per
// (channel, window, event type). Insertion order defines delivery order.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners map[listenerKey][]registration
}

func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{listeners: make(map[listenerKey][]registration)}
}

// AddListener appends the handle to the registration list.
// Registering the same handle twice yields two deliveries, matching the
// event-emitter semantics windows expect.
func (d *EventDispatcher) AddListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := listenerKey{channelID: channelID, windowID: windowID, eventType: eventType}
	d.listeners[key] = append(d.listeners[key], registration{handle: handle})
}

// RemoveListener removes the first registration matching the handle.
// Removing a handle that was never registered is a no-op, not an error.
func (d *EventDispatcher) RemoveListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := listenerKey{channelID: channelID, windowID: windowID, eventType: eventType}
	regs, exists := d.listeners[key]
	if !exists {
		return
	}
	index := lo.IndexOf(regs, registration{handle: handle})
	if index < 0 {
		return
	}
	regs = append(regs[:index], regs[index+1:]...)
	if len(regs) == 0 {
		delete(d.listeners, key)
		return
	}
	d.listeners[key] = regs
}

// DropWindow discards every registration of a disconnected window.
func (d *EventDispatcher) DropWindow(windowID domain.WindowID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key := range d.listeners {
		if key.windowID == windowID {
			delete(d.listeners, key)
		}
	}
}

// HandlesFor returns the window's listener handles for the channel and
// event type, in registration order.
func (d *EventDispatcher) HandlesFor(channelID string, windowID domain.WindowID, eventType event.EventType) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	key := listenerKey{channelID: channelID, windowID: windowID, eventType: eventType}
	return lo.Map(d.listeners[key], func(r registration, _ int) string {
		return r.handle
	})
}
