// Package domain contains core concepts of the desktop interop system.
// This file defines Window identity. A window is a connected client of the
// engine; its lifecycle (creation, UUID assignment) belongs to the desktop
// owner, not to this module.
package domain

import "github.com/google/uuid"

// WindowID identifies a connected window.
type WindowID string

// NewWindowID assigns a fresh identity to a connecting window.
func NewWindowID() WindowID {
	return WindowID(uuid.NewString())
}

func (w WindowID) String() string {
	return string(w)
}
