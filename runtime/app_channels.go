package runtime

import (
	"github.com/google/uuid"

	"interop-lab/domain"
	"interop-lab/errors"
)

// AppChannelFactory creates and resolves application-defined channels.
// Ids are uuid v4 (122 bits of randomness), so concurrent Create calls
// never produce colliding ids in practice; the registry still guards the
// insert, turning a collision into DuplicateIDError instead of silent reuse.
type AppChannelFactory struct {
	registry *ChannelRegistry
}

func NewAppChannelFactory(registry *ChannelRegistry) *AppChannelFactory {
	return &AppChannelFactory{registry: registry}
}

// Create registers a fresh app channel and returns its descriptor.
func (f *AppChannelFactory) Create() (domain.Channel, error) {
	return f.registry.Register(domain.NewAppChannel(uuid.NewString()))
}

// Wrap resolves an existing app channel by id. It never creates one:
// wrapping a nonexistent channel is an explicit NotFoundError.
//
// ownerUUID is accepted for future authorization policy but does not
// currently restrict wrapping: knowing the id is the access boundary.
func (f *AppChannelFactory) Wrap(ownerUUID, channelID string) (domain.Channel, error) {
	_ = ownerUUID

	channel, err := f.registry.Lookup(channelID)
	if err != nil {
		return domain.Channel{}, errors.NewAppChannelNotFound(channelID)
	}
	if channel.Type != domain.ChannelApp {
		return domain.Channel{}, errors.NewAppChannelNotFound(channelID)
	}
	return channel, nil
}
