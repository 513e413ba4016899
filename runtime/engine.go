package runtime

import (
	"log/slog"
	"sync"

	"interop-lab/contract"
	"interop-lab/domain"
	"interop-lab/domain/event"
	"interop-lab/observability"
)

// Engine is the channel broadcast broker shared by every window.
//
// Each public method is one atomic step with respect to all others: the
// engine mutex serializes the cache-update / recipient-resolution /
// dispatch sequence so no two broadcasts interleave. The engine performs
// no blocking I/O inside the critical section; journal writes leave
// through a buffered channel drained by a supervised worker.
type Engine struct {
	mu            sync.Mutex
	log           *slog.Logger
	registry      *ChannelRegistry
	cache         *ContextCache
	membership    *MembershipManager
	dispatcher    *EventDispatcher
	appChannels   *AppChannelFactory
	stats         *observability.StatsRecorder
	journalEvents chan event.ContextBroadcast
}

func NewEngine(log *slog.Logger, desktopChannels []domain.Channel, journalBufferSize int) (*Engine, error) {
	registry, err := NewChannelRegistry(desktopChannels)
	if err != nil {
		return nil, err
	}
	cache := NewContextCache()
	return &Engine{
		log:           log,
		registry:      registry,
		cache:         cache,
		membership:    NewMembershipManager(registry, cache),
		dispatcher:    NewEventDispatcher(),
		appChannels:   NewAppChannelFactory(registry),
		stats:         observability.NewStatsRecorder(),
		journalEvents: make(chan event.ContextBroadcast, journalBufferSize),
	}, nil
}

// Connect registers a window and its delivery sink; the window starts on
// the default channel.
func (e *Engine) Connect(windowID domain.WindowID, sink contract.EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.membership.Connect(windowID, sink)
	e.log.Debug("Window connected", "window_id", windowID)
}

// Disconnect forgets the window: sink, membership (with clear-on-empty on
// the channel it leaves), and every listener registration.
func (e *Engine) Disconnect(windowID domain.WindowID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.membership.Disconnect(windowID)
	e.dispatcher.DropWindow(windowID)
	e.log.Debug("Window disconnected", "window_id", windowID)
}

// Join moves the window to the target channel.
func (e *Engine) Join(windowID domain.WindowID, channelID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.membership.Join(windowID, channelID)
}

// Leave returns the window to the default channel.
func (e *Engine) Leave(windowID domain.WindowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.membership.Leave(windowID)
}

// JoinedChannel resolves the window's current channel descriptor.
func (e *Engine) JoinedChannel(windowID domain.WindowID) (domain.Channel, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	channelID, exists := e.membership.JoinedChannel(windowID)
	if !exists {
		return domain.Channel{}, errNotConnected(windowID)
	}
	return e.registry.Lookup(channelID)
}

// AddListener registers a listener handle on a known channel.
func (e *Engine) AddListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.registry.Lookup(channelID); err != nil {
		return err
	}
	e.dispatcher.AddListener(channelID, windowID, eventType, handle)
	return nil
}

// RemoveListener drops a listener handle. Idempotent: unknown handles are
// ignored, and the channel is still validated so typos surface.
func (e *Engine) RemoveListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.registry.Lookup(channelID); err != nil {
		return err
	}
	e.dispatcher.RemoveListener(channelID, windowID, eventType, handle)
	return nil
}

// DesktopChannels returns the seeded desktop descriptors in configured order.
func (e *Engine) DesktopChannels() []domain.Channel {
	return e.registry.ListByType(domain.ChannelDesktop)
}

// CreateAppChannel registers a fresh randomized app channel.
func (e *Engine) CreateAppChannel() (domain.Channel, error) {
	return e.appChannels.Create()
}

// WrapAppChannel resolves an existing app channel; it never creates one.
func (e *Engine) WrapAppChannel(ownerUUID, channelID string) (domain.Channel, error) {
	return e.appChannels.Wrap(ownerUUID, channelID)
}

// JournalEvents exposes the stream of routed broadcasts for the journal worker.
func (e *Engine) JournalEvents() <-chan event.ContextBroadcast {
	return e.journalEvents
}

// Stats snapshots the engine counters and gauges.
func (e *Engine) Stats() observability.EngineStats {
	return e.stats.Snapshot(
		len(e.membership.ConnectedWindows()),
		e.registry.Count(domain.ChannelApp),
	)
}
