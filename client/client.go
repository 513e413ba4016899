package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `env:"INTEROP_SERVER_URL,default=ws://localhost:4222/interop"`
	ChannelID string `env:"INTEROP_CHANNEL_ID,default=red"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`
}

type frame struct {
	Seq        int64           `json:"seq,omitempty"`
	Op         string          `json:"op"`
	OK         bool            `json:"ok,omitempty"`
	Error      string          `json:"error,omitempty"`
	WindowID   string          `json:"windowId,omitempty"`
	ChannelID  string          `json:"channelId,omitempty"`
	EventType  string          `json:"eventType,omitempty"`
	Handle     string          `json:"handle,omitempty"`
	Type       string          `json:"type,omitempty"`
	ListenerID string          `json:"listenerId,omitempty"`
	Channel    json.RawMessage `json:"channel,omitempty"`
	Context    *contextFrame   `json:"context,omitempty"`
}

type contextFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v", err)
	}
	os.Exit(code)
}

// run handles the socket client lifecycle, configuration loading, and event streaming.
// This pattern ensures clean resource management and error propagation.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Establish the window connection.
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerURL, err)
	}
	defer conn.Close()

	// 4. Join the configured channel and listen on it plus the global channel.
	seq := int64(0)
	send := func(f frame) error {
		seq++
		f.Seq = seq
		return conn.WriteJSON(f)
	}

	if err := send(frame{Op: "join", ChannelID: config.ChannelID}); err != nil {
		return exitRuntime, err
	}
	if err := send(frame{Op: "addEventListener", ChannelID: config.ChannelID,
		EventType: "broadcast", Handle: "client-main"}); err != nil {
		return exitRuntime, err
	}
	if err := send(frame{Op: "addEventListener", ChannelID: "global",
		EventType: "broadcast", Handle: "client-snoop"}); err != nil {
		return exitRuntime, err
	}

	// 5. Broadcast stdin lines as message contexts.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			payload, _ := json.Marshal(map[string]string{"text": scanner.Text()})
			if err := send(frame{Op: "broadcastCurrent",
				Context: &contextFrame{Type: "fdc3.message", Payload: payload}}); err != nil {
				log.Error("Broadcast failed", "error", err)
				return
			}
		}
	}()

	// 6. Print pushed events until the server closes or we are interrupted.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("connection lost: %w", err)
		}
		switch f.Op {
		case "hello":
			color.Green.Printf("connected as window %s\n", f.WindowID)
		case "event":
			label := "channel"
			if f.ListenerID == "client-snoop" {
				label = "global"
			}
			color.Cyan.Printf("[%s] %s %s\n", label, f.Context.Type, string(f.Context.Payload))
		default:
			if !f.OK && f.Error != "" {
				color.Red.Printf("error on %s: %s\n", f.Op, f.Error)
			}
		}
	}
}
