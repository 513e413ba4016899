package runtime

import (
	"sync"

	"interop-lab/contract"
	"interop-lab/domain"
	"interop-lab/errors"
)

type Set map[domain.WindowID]struct{}

// MembershipManager tracks the single joined-channel-per-window relation
// and the connected-window set.
//
// Invariants:
//   - a connected window is a member of exactly one non-global channel,
//     the default channel unless it joined elsewhere;
//   - the global channel never appears in the join table, every connected
//     window snoops it implicitly;
//   - when a non-default channel's member set transitions to empty, the
//     channel's cached context is cleared.
type MembershipManager struct {
	mu       sync.RWMutex
	registry contract.IChannelRegistry
	cache    contract.IContextCache
	sessions map[domain.WindowID]contract.EventSink // connected windows -> delivery sink
	joined   map[domain.WindowID]string             // window -> joined channel id
	members  map[string]Set                         // channel id -> member windows
}

func NewMembershipManager(registry contract.IChannelRegistry, cache contract.IContextCache) *MembershipManager {
	return &MembershipManager{
		registry: registry,
		cache:    cache,
		sessions: make(map[domain.WindowID]contract.EventSink),
		joined:   make(map[domain.WindowID]string),
		members:  make(map[string]Set),
	}
}

// Connect registers a window's delivery sink and places it on the default
// channel. Reconnecting an already known window replaces its sink only.
func (m *MembershipManager) Connect(windowID domain.WindowID, sink contract.EventSink) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[windowID] = sink
	if _, alreadyJoined := m.joined[windowID]; !alreadyJoined {
		m.place(windowID, domain.DefaultChannelID)
	}
}

// Disconnect removes the window entirely: its sink, and its membership
// (running the clear-on-empty check on the channel it leaves behind).
func (m *MembershipManager) Disconnect(windowID domain.WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, windowID)
	m.displace(windowID)
	delete(m.joined, windowID)
}

// Join moves the window to the target channel.
// Idempotent when the window is already a member of the target.
// Fails with NotFoundError for unknown channels; the global channel is
// not joinable and resolves to NotFound as well, by §membership contract.
func (m *MembershipManager) Join(windowID domain.WindowID, channelID string) error {
	channel, err := m.registry.Lookup(channelID)
	if err != nil {
		return err
	}
	if !channel.Joinable() {
		return errors.NewChannelNotFound(channelID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, connected := m.sessions[windowID]; !connected {
		return errors.ErrNotConnected
	}
	if m.joined[windowID] == channelID {
		return nil
	}
	m.displace(windowID)
	m.place(windowID, channelID)
	return nil
}

// Leave returns the window to the default channel.
func (m *MembershipManager) Leave(windowID domain.WindowID) error {
	return m.Join(windowID, domain.DefaultChannelID)
}

// JoinedChannel reports the channel the window is currently a member of.
func (m *MembershipManager) JoinedChannel(windowID domain.WindowID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	channelID, exists := m.joined[windowID]
	return channelID, exists
}

// MembersOf returns the member windows of a channel.
// The global channel has no members; its recipient set is ConnectedWindows.
func (m *MembershipManager) MembersOf(channelID string) []domain.WindowID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members, exists := m.members[channelID]
	if !exists {
		return nil
	}
	windows := make([]domain.WindowID, 0, len(members))
	for windowID := range members {
		windows = append(windows, windowID)
	}
	return windows
}

// ConnectedWindows returns every window currently known to the engine.
// This set, not the join table, is the recipient source for global snooping.
func (m *MembershipManager) ConnectedWindows() []domain.WindowID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	windows := make([]domain.WindowID, 0, len(m.sessions))
	for windowID := range m.sessions {
		windows = append(windows, windowID)
	}
	return windows
}

// SinkFor resolves a window's delivery sink.
func (m *MembershipManager) SinkFor(windowID domain.WindowID) (contract.EventSink, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sink, exists := m.sessions[windowID]
	return sink, exists
}

// place adds the window to a channel's member set. Callers hold the lock.
func (m *MembershipManager) place(windowID domain.WindowID, channelID string) {
	m.joined[windowID] = channelID
	if _, exists := m.members[channelID]; !exists {
		m.members[channelID] = make(Set)
	}
	m.members[channelID][windowID] = struct{}{}
}

// displace removes the window from its current channel's member set and
// clears the channel's cached context when it empties. Callers hold the lock.
func (m *MembershipManager) displace(windowID domain.WindowID) {
	channelID, exists := m.joined[windowID]
	if !exists {
		return
	}
	members, exists := m.members[channelID]
	if !exists {
		return
	}
	delete(members, windowID)

	// If no one is left in the channel, drop the set entirely and reset
	// the channel state. Clear is a no-op on the default channel.
	if len(members) == 0 {
		delete(m.members, channelID)
		m.cache.Clear(channelID)
	}
}
