package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"interop-lab/internal"
	"interop-lab/repositories"
)

// The viewer inspects a running (or stopped) engine's journal without
// touching it: Badger is opened read-only and the lock guard is bypassed
// so the server can keep running.
func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	desktopChannels, err := config.ParseDesktopChannels()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 2. Open Badger in Read-Only mode
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	journal := repositories.NewJournalRepository(db, slog.Default(), config.LimitJournalEntries)

	// 3. Desktop channel catalog, colorized like the selector UI
	color.Bold.Println("Desktop channels")
	channelTable := tablewriter.NewWriter(os.Stdout)
	channelTable.SetHeader([]string{"ID", "Name", "Color"})
	for _, channel := range desktopChannels {
		channelTable.Append([]string{channel.ID, channel.Name, channel.Color})
	}
	channelTable.Render()

	// 4. Latest journal entries per desktop channel
	color.Bold.Println("\nBroadcast journal (newest first)")
	journalTable := tablewriter.NewWriter(os.Stdout)
	journalTable.SetHeader([]string{"At", "Channel", "Sender", "Context type"})

	total := 0
	for _, channel := range desktopChannels {
		entries, _, err := journal.Entries(channel.ID, nil)
		if err != nil {
			log.Fatalf("Failed to read journal for %s: %v", channel.ID, err)
		}
		for _, entry := range entries {
			at := time.Unix(0, entry.At).UTC().Format(time.RFC3339)
			journalTable.Append([]string{at, channel.ID, entry.Sender, entry.Context.Type})
			total++
		}
	}
	journalTable.Render()

	if total == 0 {
		color.Gray.Println("No broadcasts recorded yet")
	} else {
		fmt.Printf("%d broadcast(s)\n", total)
	}
}
