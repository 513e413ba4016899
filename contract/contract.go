//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"interop-lab/domain"
	"interop-lab/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives events routed to a single window connection.
// Implementations must not block: the router calls Consume inside its
// critical section and treats an error as a per-recipient DeliveryFault.
type EventSink interface {
	Consume(ctx context.Context, e event.ChannelEvent) error
}

// IChannelRegistry owns the immutable channel catalog.
type IChannelRegistry interface {
	Register(channel domain.Channel) (domain.Channel, error)
	Lookup(id string) (domain.Channel, error)
	ListByType(channelType domain.ChannelType) []domain.Channel
}

// IContextCache stores the most recent context per non-default channel.
type IContextCache interface {
	Get(channelID string) *domain.Context
	Set(channelID string, ctx domain.Context)
	Clear(channelID string)
}

// IMembership tracks the joined-channel relation and the connected-window
// set used for global-channel snooping.
type IMembership interface {
	Connect(windowID domain.WindowID, sink EventSink)
	Disconnect(windowID domain.WindowID)
	Join(windowID domain.WindowID, channelID string) error
	Leave(windowID domain.WindowID) error
	JoinedChannel(windowID domain.WindowID) (string, bool)
	MembersOf(channelID string) []domain.WindowID
	ConnectedWindows() []domain.WindowID
	SinkFor(windowID domain.WindowID) (EventSink, bool)
}

// IDispatcher owns per-channel, per-event-type listener registrations.
type IDispatcher interface {
	AddListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string)
	RemoveListener(channelID string, windowID domain.WindowID, eventType event.EventType, handle string)
	DropWindow(windowID domain.WindowID)
	HandlesFor(channelID string, windowID domain.WindowID, eventType event.EventType) []string
}

// IJournal records routed broadcasts for inspection tooling.
// Engine semantics never read it back.
type IJournal interface {
	Append(entry JournalEntry) error
	Entries(channelID string, cursor *string) ([]JournalEntry, *string, error)
}

// JournalEntry is the persisted form of a routed broadcast.
type JournalEntry struct {
	ID      string
	Channel string
	Sender  string
	Context domain.Context
	At      int64
}
