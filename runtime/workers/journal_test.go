package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"interop-lab/contract"
	"interop-lab/domain"
	"interop-lab/domain/event"
)

// memoryJournal records appends for assertions.
type memoryJournal struct {
	mu      sync.Mutex
	entries []contract.JournalEntry
}

func (j *memoryJournal) Append(entry contract.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

func (j *memoryJournal) Entries(channelID string, cursor *string) ([]contract.JournalEntry, *string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]contract.JournalEntry(nil), j.entries...), nil, nil
}

func (j *memoryJournal) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

func TestJournalWorker_PersistsBroadcasts(t *testing.T) {
	req := require.New(t)
	journal := &memoryJournal{}
	broadcasts := make(chan event.ContextBroadcast, 4)

	worker := NewJournalWorker(journal, broadcasts, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// When a routed broadcast reaches the worker
	payload, _ := json.Marshal(map[string]string{"ticker": "AAPL"})
	sent := event.ContextBroadcast{
		ID:      uuid.New(),
		Channel: domain.NewDesktopChannel("red", "Red", "#FF0000"),
		Sender:  domain.NewWindowID(),
		Context: domain.NewContext("fdc3.instrument", payload),
		At:      time.Now().UTC(),
	}
	broadcasts <- sent

	// Then it lands in the journal
	req.Eventually(func() bool { return journal.count() == 1 },
		time.Second, 10*time.Millisecond)

	entries, _, err := journal.Entries("red", nil)
	req.NoError(err)
	req.Equal(sent.ID.String(), entries[0].ID)
	req.Equal("red", entries[0].Channel)
	req.Equal(sent.Sender.String(), entries[0].Sender)
	req.Equal("fdc3.instrument", entries[0].Context.Type)
	req.Equal(sent.At.UnixNano(), entries[0].At)
}

func TestJournalWorker_StopsOnClosedChannel(t *testing.T) {
	req := require.New(t)
	broadcasts := make(chan event.ContextBroadcast)
	worker := NewJournalWorker(&memoryJournal{}, broadcasts, slog.Default())

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	close(broadcasts)

	select {
	case err := <-done:
		// Terminated properly, no restart needed
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("worker should stop when the source channel closes")
	}
}
