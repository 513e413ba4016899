// Package ws carries the window-facing operations over WebSocket.
// One connection is one window; frames are JSON on both directions.
package ws

import (
	"encoding/json"

	"github.com/samber/lo"

	"interop-lab/domain"
	"interop-lab/domain/event"
)

// Operation names accepted in request frames.
const (
	OpBroadcast           = "broadcast"
	OpBroadcastCurrent    = "broadcastCurrent"
	OpGetCurrentContext   = "getCurrentContext"
	OpJoin                = "join"
	OpLeave               = "leave"
	OpAddEventListener    = "addEventListener"
	OpRemoveEventListener = "removeEventListener"
	OpGetDesktopChannels  = "getDesktopChannels"
	OpCreateAppChannel    = "createAppChannel"
	OpWrapAppChannel      = "wrapAppChannel"

	// Server-initiated frames.
	OpHello = "hello"
	OpEvent = "event"
)

// Request is a window → engine frame. Seq correlates the response.
type Request struct {
	Seq       int64         `json:"seq"`
	Op        string        `json:"op"`
	ChannelID string        `json:"channelId,omitempty"`
	Context   *ContextFrame `json:"context,omitempty"`
	EventType string        `json:"eventType,omitempty"`
	Handle    string        `json:"handle,omitempty"`
	OwnerUUID string        `json:"ownerUuid,omitempty"`
}

// Response is an engine → window frame answering a Request.
type Response struct {
	Seq      int64               `json:"seq"`
	Op       string              `json:"op"`
	OK       bool                `json:"ok"`
	Error    string              `json:"error,omitempty"`
	WindowID string              `json:"windowId,omitempty"`
	Context  *ContextFrame       `json:"context,omitempty"`
	Channel  *ChannelDescriptor  `json:"channel,omitempty"`
	Channels []ChannelDescriptor `json:"channels,omitempty"`
}

// EventFrame is the pushed listener delivery:
// {type:"broadcast", channel, context}.
type EventFrame struct {
	Op         string            `json:"op"`
	Type       string            `json:"type"`
	ListenerID string            `json:"listenerId,omitempty"`
	Channel    ChannelDescriptor `json:"channel"`
	Context    ContextFrame      `json:"context"`
}

// ChannelDescriptor is the wire form of a channel record.
type ChannelDescriptor struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// ContextFrame is the wire form of a context value.
type ContextFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func toDescriptor(channel domain.Channel) ChannelDescriptor {
	return ChannelDescriptor{
		ID:    channel.ID,
		Type:  string(channel.Type),
		Name:  channel.Name,
		Color: channel.Color,
	}
}

func toDescriptors(channels []domain.Channel) []ChannelDescriptor {
	return lo.Map(channels, func(channel domain.Channel, _ int) ChannelDescriptor {
		return toDescriptor(channel)
	})
}

func toContextFrame(context domain.Context) ContextFrame {
	return ContextFrame{Type: context.Type, Payload: context.Payload}
}

func fromContextFrame(frame ContextFrame) domain.Context {
	return domain.NewContext(frame.Type, frame.Payload)
}

func toEventFrame(broadcast event.ContextBroadcast) EventFrame {
	return EventFrame{
		Op:         OpEvent,
		Type:       string(event.TypeBroadcast),
		ListenerID: broadcast.Handle,
		Channel:    toDescriptor(broadcast.Channel),
		Context:    toContextFrame(broadcast.Context),
	}
}
