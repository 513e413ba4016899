package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"interop-lab/domain"
	"interop-lab/domain/event"
)

func TestEventDispatcher_RegistrationOrder(t *testing.T) {
	req := require.New(t)
	dispatcher := NewEventDispatcher()
	windowID := domain.NewWindowID()

	// When handles are registered in sequence
	dispatcher.AddListener("red", windowID, event.TypeBroadcast, "first")
	dispatcher.AddListener("red", windowID, event.TypeBroadcast, "second")
	dispatcher.AddListener("red", windowID, event.TypeBroadcast, "third")

	// Then delivery order is insertion order
	req.Equal([]string{"first", "second", "third"},
		dispatcher.HandlesFor("red", windowID, event.TypeBroadcast))
}

func TestEventDispatcher_RemoveListener(t *testing.T) {
	req := require.New(t)
	dispatcher := NewEventDispatcher()
	windowID := domain.NewWindowID()

	dispatcher.AddListener("red", windowID, event.TypeBroadcast, "first")
	dispatcher.AddListener("red", windowID, event.TypeBroadcast, "second")

	// When a handle is removed by value
	dispatcher.RemoveListener("red", windowID, event.TypeBroadcast, "first")

	// Then only the other remains, order preserved
	req.Equal([]string{"second"},
		dispatcher.HandlesFor("red", windowID, event.TypeBroadcast))
}

func TestEventDispatcher_RemoveListener_Idempotent(t *testing.T) {
	req := require.New(t)
	dispatcher := NewEventDispatcher()
	windowID := domain.NewWindowID()

	dispatcher.AddListener("red", windowID, event.TypeBroadcast, "only")

	// Removing a handle that was never registered is a no-op, not an error
	dispatcher.RemoveListener("red", windowID, event.TypeBroadcast, "ghost")
	dispatcher.RemoveListener("blue", windowID, event.TypeBroadcast, "only")

	req.Equal([]string{"only"},
		dispatcher.HandlesFor("red", windowID, event.TypeBroadcast))

	// And removing twice behaves like removing once
	dispatcher.RemoveListener("red", windowID, event.TypeBroadcast, "only")
	dispatcher.RemoveListener("red", windowID, event.TypeBroadcast, "only")
	req.Empty(dispatcher.HandlesFor("red", windowID, event.TypeBroadcast))
}

func TestEventDispatcher_ScopedByWindowAndType(t *testing.T) {
	req := require.New(t)
	dispatcher := NewEventDispatcher()
	windowA := domain.NewWindowID()
	windowB := domain.NewWindowID()

	dispatcher.AddListener("red", windowA, event.TypeBroadcast, "a")
	dispatcher.AddListener("red", windowB, event.TypeBroadcast, "b")

	req.Equal([]string{"a"}, dispatcher.HandlesFor("red", windowA, event.TypeBroadcast))
	req.Equal([]string{"b"}, dispatcher.HandlesFor("red", windowB, event.TypeBroadcast))
	req.Empty(dispatcher.HandlesFor("blue", windowA, event.TypeBroadcast))
}

func TestEventDispatcher_DropWindow(t *testing.T) {
	req := require.New(t)
	dispatcher := NewEventDispatcher()
	windowA := domain.NewWindowID()
	windowB := domain.NewWindowID()

	dispatcher.AddListener("red", windowA, event.TypeBroadcast, "a1")
	dispatcher.AddListener("global", windowA, event.TypeBroadcast, "a2")
	dispatcher.AddListener("red", windowB, event.TypeBroadcast, "b")

	// When a window disconnects
	dispatcher.DropWindow(windowA)

	// Then only its registrations are gone
	req.Empty(dispatcher.HandlesFor("red", windowA, event.TypeBroadcast))
	req.Empty(dispatcher.HandlesFor("global", windowA, event.TypeBroadcast))
	req.Equal([]string{"b"}, dispatcher.HandlesFor("red", windowB, event.TypeBroadcast))
}
