package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"interop-lab/domain"
	"interop-lab/domain/event"
	"interop-lab/errors"
)

// nopSink discards everything, as membership tests only exercise the relation.
type nopSink struct{}

func (s nopSink) Consume(ctx context.Context, e event.ChannelEvent) error {
	return nil
}

func newMembershipFixture(t *testing.T) (*MembershipManager, *ContextCache) {
	t.Helper()
	registry, err := NewChannelRegistry(desktopFixture())
	require.NoError(t, err)
	cache := NewContextCache()
	return NewMembershipManager(registry, cache), cache
}

func TestMembership_Connect_PlacesOnDefaultChannel(t *testing.T) {
	req := require.New(t)
	membership, _ := newMembershipFixture(t)
	windowID := domain.NewWindowID()

	// When a window connects
	membership.Connect(windowID, nopSink{})

	// Then it is a member of exactly the default channel
	channelID, joined := membership.JoinedChannel(windowID)
	req.True(joined)
	req.Equal(domain.DefaultChannelID, channelID)
	req.Contains(membership.MembersOf(domain.DefaultChannelID), windowID)
	req.Contains(membership.ConnectedWindows(), windowID)
}

func TestMembership_Join_MovesBetweenChannels(t *testing.T) {
	req := require.New(t)
	membership, _ := newMembershipFixture(t)
	windowID := domain.NewWindowID()
	membership.Connect(windowID, nopSink{})

	// When the window joins a desktop channel
	req.NoError(membership.Join(windowID, "red"))

	// Then it left the default channel: one membership at a time
	req.Contains(membership.MembersOf("red"), windowID)
	req.Empty(membership.MembersOf(domain.DefaultChannelID))

	// When it joins another channel
	req.NoError(membership.Join(windowID, "blue"))

	// Then the previous membership is gone
	req.Empty(membership.MembersOf("red"))
	req.Contains(membership.MembersOf("blue"), windowID)
}

func TestMembership_Join_Idempotent(t *testing.T) {
	req := require.New(t)
	membership, _ := newMembershipFixture(t)
	windowID := domain.NewWindowID()
	membership.Connect(windowID, nopSink{})

	// When joining the same channel twice in a row
	req.NoError(membership.Join(windowID, "red"))
	req.NoError(membership.Join(windowID, "red"))

	// Then membership is identical to a single join
	req.Len(membership.MembersOf("red"), 1)
	channelID, _ := membership.JoinedChannel(windowID)
	req.Equal("red", channelID)
}

func TestMembership_Join_UnknownChannel(t *testing.T) {
	req := require.New(t)
	membership, _ := newMembershipFixture(t)
	windowID := domain.NewWindowID()
	membership.Connect(windowID, nopSink{})

	err := membership.Join(windowID, "turquoise")
	req.Error(err)
	req.True(errors.IsNotFound(err))

	// And the window stays where it was
	channelID, _ := membership.JoinedChannel(windowID)
	req.Equal(domain.DefaultChannelID, channelID)
}

func TestMembership_Join_GlobalChannel_Refused(t *testing.T) {
	req := require.New(t)
	membership, _ := newMembershipFixture(t)
	windowID := domain.NewWindowID()
	membership.Connect(windowID, nopSink{})

	// The global channel is snooped, never joined
	err := membership.Join(windowID, domain.GlobalChannelID)
	req.Error(err)
	req.True(errors.IsNotFound(err))
}

func TestMembership_Join_NotConnectedWindow(t *testing.T) {
	req := require.New(t)
	membership, _ := newMembershipFixture(t)

	err := membership.Join(domain.NewWindowID(), "red")
	req.ErrorIs(err, errors.ErrNotConnected)
}

func TestMembership_ClearOnEmpty(t *testing.T) {
	req := require.New(t)
	membership, cache := newMembershipFixture(t)
	windowID := domain.NewWindowID()
	membership.Connect(windowID, nopSink{})

	// Given a sole member and a cached context on red
	req.NoError(membership.Join(windowID, "red"))
	cache.Set("red", instrument("AAPL"))

	// When the last member leaves
	req.NoError(membership.Leave(windowID))

	// Then the channel state resets to nil
	req.Nil(cache.Get("red"))
	req.Empty(membership.MembersOf("red"))
}

func TestMembership_ClearOnEmpty_OnlyWhenLastMemberLeaves(t *testing.T) {
	req := require.New(t)
	membership, cache := newMembershipFixture(t)
	first := domain.NewWindowID()
	second := domain.NewWindowID()
	membership.Connect(first, nopSink{})
	membership.Connect(second, nopSink{})

	req.NoError(membership.Join(first, "red"))
	req.NoError(membership.Join(second, "red"))
	cache.Set("red", instrument("AAPL"))

	// When one of two members leaves
	req.NoError(membership.Leave(first))

	// Then the context survives
	req.NotNil(cache.Get("red"))

	// And clears once the channel empties
	req.NoError(membership.Leave(second))
	req.Nil(cache.Get("red"))
}

func TestMembership_Disconnect_CleansEverything(t *testing.T) {
	req := require.New(t)
	membership, cache := newMembershipFixture(t)
	windowID := domain.NewWindowID()
	membership.Connect(windowID, nopSink{})
	req.NoError(membership.Join(windowID, "red"))
	cache.Set("red", instrument("AAPL"))

	// When the window disconnects
	membership.Disconnect(windowID)

	// Then no trace is left and the channel state was cleared
	req.Empty(membership.ConnectedWindows())
	req.Empty(membership.MembersOf("red"))
	req.Nil(cache.Get("red"))
	_, joined := membership.JoinedChannel(windowID)
	req.False(joined)
	_, connected := membership.SinkFor(windowID)
	req.False(connected)
}
