//go:generate go run go.uber.org/mock/mockgen -source=journal.go -destination=../mocks/mock_journal_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"interop-lab/contract"
)

// JournalRepository persists routed broadcasts in BadgerDB.
//
// The key is formatted as "bcast:{channel_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the broadcast uuid as a collision
//     disconnector if two broadcasts land on the same nanosecond.
//
// Values are the entry as JSON: the context payload is already an opaque
// JSON blob, so no re-encoding layer sits between wire and disk.
type JournalRepository struct {
	db           *badger.DB
	log          *slog.Logger
	limitEntries *int
}

func NewJournalRepository(db *badger.DB, log *slog.Logger, limitEntries *int) JournalRepository {
	return JournalRepository{db: db, log: log, limitEntries: limitEntries}
}

// Append persists one routed broadcast.
func (r JournalRepository) Append(entry contract.JournalEntry) error {
	key := fmt.Sprintf("bcast:%s:%019d:%s", entry.Channel, entry.At, entry.ID)
	bytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// Entries retrieves a channel's broadcasts, newest first, using a prefix
// scan. Thanks to the padded timestamp in the key the entries are naturally
// sorted by time. Collection stops at the configured limit; the returned
// cursor resumes the scan on the next call.
func (r JournalRepository) Entries(channelID string, cursor *string) ([]contract.JournalEntry, *string, error) {
	var rawEntries [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("bcast:%s:", channelID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible position for the channel,
			// then iterate backwards through time.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitEntries != nil && len(rawEntries) == *r.limitEntries {
				r.log.Debug(fmt.Sprintf("Maximum of %d entries reached", *r.limitEntries))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawEntries = append(rawEntries, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var entries []contract.JournalEntry
	for _, raw := range rawEntries {
		var entry contract.JournalEntry
		if err = json.Unmarshal(raw, &entry); err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}
	return entries, &lastKey, nil
}
