package runtime

import (
	"sync"

	"interop-lab/domain"
)

// ContextCache keeps the single most recent context per channel.
// The default channel is stateless: Get always answers nil and
// Set/Clear are silent no-ops, without consulting storage.
type ContextCache struct {
	mu       sync.RWMutex
	contexts map[string]domain.Context
}

func NewContextCache() *ContextCache {
	return &ContextCache{contexts: make(map[string]domain.Context)}
}

// Get returns the cached context for the channel, or nil when the channel
// has never seen a broadcast or was cleared since.
func (c *ContextCache) Get(channelID string) *domain.Context {
	if channelID == domain.DefaultChannelID {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	context, exists := c.contexts[channelID]
	if !exists {
		return nil
	}
	return &context
}

// Set replaces the cached context. No history is kept.
func (c *ContextCache) Set(channelID string, context domain.Context) {
	if channelID == domain.DefaultChannelID {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contexts[channelID] = context
}

// Clear resets the channel state to nil, as when the last member leaves.
func (c *ContextCache) Clear(channelID string) {
	if channelID == domain.DefaultChannelID {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.contexts, channelID)
}
