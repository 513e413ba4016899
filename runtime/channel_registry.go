// Package runtime hosts the channel broadcast engine: channel catalog,
// membership, context cache, listener dispatch, and broadcast routing.
// It orchestrates the system without containing transport or UI logic.
package runtime

import (
	"sync"

	"github.com/samber/lo"

	"interop-lab/domain"
	"interop-lab/errors"
)

// ChannelRegistry owns the immutable channel catalog.
// The default, global, and desktop channels are seeded once at
// construction; app channels are inserted lazily by the factory.
// Records are never mutated after registration.
type ChannelRegistry struct {
	mu       sync.RWMutex
	channels map[string]domain.Channel
	order    []string // registration order, for deterministic listings
}

// NewChannelRegistry seeds the catalog with the default channel, the
// global channel, and the configured desktop channels, in that order.
func NewChannelRegistry(desktopChannels []domain.Channel) (*ChannelRegistry, error) {
	r := &ChannelRegistry{channels: make(map[string]domain.Channel)}
	seed := append([]domain.Channel{domain.DefaultChannel(), domain.GlobalChannel()}, desktopChannels...)
	for _, channel := range seed {
		if _, err := r.Register(channel); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register stores a new channel record.
// Returns DuplicateIDError when the id is already taken; this should not
// occur under correct id generation and indicates a seeding or generation bug.
func (r *ChannelRegistry) Register(channel domain.Channel) (domain.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.channels[channel.ID]; exists {
		return domain.Channel{}, errors.DuplicateIDError{ID: channel.ID}
	}
	r.channels[channel.ID] = channel
	r.order = append(r.order, channel.ID)
	return channel, nil
}

// Lookup resolves a channel id to its record.
func (r *ChannelRegistry) Lookup(id string) (domain.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, exists := r.channels[id]
	if !exists {
		return domain.Channel{}, errors.NewChannelNotFound(id)
	}
	return channel, nil
}

// ListByType returns channels of the given type in registration order.
// For desktop channels that is the configured order.
func (r *ChannelRegistry) ListByType(channelType domain.ChannelType) []domain.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := lo.Filter(r.order, func(id string, _ int) bool {
		return r.channels[id].Type == channelType
	})
	return lo.Map(ids, func(id string, _ int) domain.Channel {
		return r.channels[id]
	})
}

// Count returns the number of registered channels of the given type.
func (r *ChannelRegistry) Count(channelType domain.ChannelType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, channel := range r.channels {
		if channel.Type == channelType {
			count++
		}
	}
	return count
}
