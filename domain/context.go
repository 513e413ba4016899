package domain

import "encoding/json"

// Context is the opaque payload exchanged on channels.
// The engine reads nothing but the Type discriminator; the payload is
// copied by reference into the cache and into each delivery, never parsed.
type Context struct {
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewContext wraps a typed payload.
func NewContext(contextType string, payload json.RawMessage) Context {
	return Context{Type: contextType, Payload: payload}
}
