package workers

import (
	"context"
	"log/slog"

	"interop-lab/contract"
	"interop-lab/domain/event"
)

// Ensure *JournalWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*JournalWorker)(nil)

// JournalWorker drains routed broadcasts off the engine's journal buffer
// and persists them. It sits outside the engine critical section: a slow
// or failing store slows the journal, never the routing.
type JournalWorker struct {
	journal    contract.IJournal
	broadcasts <-chan event.ContextBroadcast
	log        *slog.Logger
}

func NewJournalWorker(journal contract.IJournal, broadcasts <-chan event.ContextBroadcast, log *slog.Logger) *JournalWorker {
	return &JournalWorker{journal: journal, broadcasts: broadcasts, log: log}
}

func (w *JournalWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case broadcast, ok := <-w.broadcasts:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			if err := w.journal.Append(toEntry(broadcast)); err != nil {
				// The journal is observational: log and move on.
				w.log.Error("Failed to persist broadcast",
					"broadcast_id", broadcast.ID,
					"channel_id", broadcast.Channel.ID,
					"error", err)
			}
		}
	}
}

func toEntry(b event.ContextBroadcast) contract.JournalEntry {
	return contract.JournalEntry{
		ID:      b.ID.String(),
		Channel: b.Channel.ID,
		Sender:  b.Sender.String(),
		Context: b.Context,
		At:      b.At.UnixNano(),
	}
}
