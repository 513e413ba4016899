package event

import (
	"time"

	"github.com/google/uuid"

	"interop-lab/domain"
)

// EventType names the listener event kinds carried over the wire.
type EventType string

const (
	// TypeBroadcast is the only event type currently delivered to windows.
	TypeBroadcast EventType = "broadcast"
)

// ChannelEvent is implemented by everything flowing through the engine
// pipeline (listener delivery, journal, telemetry).
type ChannelEvent interface {
	ChannelID() string
}

// ContextBroadcast is the delivery payload for a routed broadcast.
// Channel is always the channel the context was broadcast on: listeners
// registered on the global channel still see the originating channel in
// the payload.
type ContextBroadcast struct {
	ID      uuid.UUID
	Channel domain.Channel
	Sender  domain.WindowID
	Handle  string
	Context domain.Context
	At      time.Time
}

func (e ContextBroadcast) ChannelID() string {
	return e.Channel.ID
}
