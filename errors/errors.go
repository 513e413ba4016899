// Package errors defines the engine error taxonomy.
//
// NotFoundError and DuplicateIDError surface synchronously to the calling
// window or application. DeliveryFault is isolated per recipient: it is
// counted and logged by the engine, never returned to a broadcaster.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	// ErrNotConnected marks an operation issued for a window the engine
	// does not know about (never connected, or already disconnected).
	ErrNotConnected = fmt.Errorf("window not connected")
	// ErrSinkFull marks a delivery dropped because the recipient's
	// buffered sink could not take the event without blocking.
	ErrSinkFull = fmt.Errorf("delivery sink full")
)

// NotFoundError reports an unknown channel id, or a wrap of a
// nonexistent app channel.
type NotFoundError struct {
	Kind string // "channel" or "app channel"
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// NewChannelNotFound builds the standard unknown-channel error.
func NewChannelNotFound(id string) NotFoundError {
	return NotFoundError{Kind: "channel", ID: id}
}

// NewAppChannelNotFound builds the wrap-of-nonexistent-channel error.
func NewAppChannelNotFound(id string) NotFoundError {
	return NotFoundError{Kind: "app channel", ID: id}
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// DuplicateIDError reports an id-generation collision inside the registry.
// Generation draws from a 122-bit random space, so this is a defect
// indicator, not an expected runtime condition.
type DuplicateIDError struct {
	ID string
}

func (e DuplicateIDError) Error() string {
	return fmt.Sprintf("channel id already registered: %s", e.ID)
}

// IsDuplicateID reports whether err wraps a DuplicateIDError.
func IsDuplicateID(err error) bool {
	var dup DuplicateIDError
	return errors.As(err, &dup)
}

// DeliveryFault reports a failed delivery to a single recipient.
type DeliveryFault struct {
	Window  string
	Channel string
	Reason  error
}

func (e DeliveryFault) Error() string {
	return fmt.Sprintf("delivery to window %s on channel %s failed: %v",
		e.Window, e.Channel, e.Reason)
}

func (e DeliveryFault) Unwrap() error {
	return e.Reason
}
