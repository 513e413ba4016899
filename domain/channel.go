// Package domain contains core concepts of the desktop interop system.
// This file defines Channel records and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// ChannelType discriminates the four channel kinds.
// All engine logic switches on this value; there is no channel hierarchy.
type ChannelType string

const (
	ChannelDefault ChannelType = "default"
	ChannelDesktop ChannelType = "desktop"
	ChannelGlobal  ChannelType = "global"
	ChannelApp     ChannelType = "app"
)

// Stable identifiers for the two singleton channels.
// Desktop channel ids come from configuration and are stable across sessions.
// App channel ids are randomized per session.
const (
	DefaultChannelID = "default"
	GlobalChannelID  = "global"
)

// Channel is an immutable channel record.
// Name and Color are only populated for desktop channels.
// Records are never mutated after registration: membership and cached
// context live elsewhere and are keyed by ID.
type Channel struct {
	ID    string
	Type  ChannelType
	Name  string
	Color string
}

// IsDefault reports whether the channel is the stateless default channel.
func (c Channel) IsDefault() bool {
	return c.Type == ChannelDefault
}

// IsGlobal reports whether the channel is the observation-only global channel.
func (c Channel) IsGlobal() bool {
	return c.Type == ChannelGlobal
}

// Joinable reports whether a window may hold membership of the channel.
// The global channel is never joined: every window snoops it implicitly.
func (c Channel) Joinable() bool {
	return c.Type != ChannelGlobal
}

// DefaultChannel is the descriptor every window starts on.
func DefaultChannel() Channel {
	return Channel{ID: DefaultChannelID, Type: ChannelDefault}
}

// GlobalChannel is the descriptor of the snoop channel.
func GlobalChannel() Channel {
	return Channel{ID: GlobalChannelID, Type: ChannelGlobal}
}

// NewDesktopChannel builds a configured desktop channel record.
func NewDesktopChannel(id, name, color string) Channel {
	return Channel{ID: id, Type: ChannelDesktop, Name: name, Color: color}
}

// NewAppChannel builds an application channel record for a generated id.
func NewAppChannel(id string) Channel {
	return Channel{ID: id, Type: ChannelApp}
}
