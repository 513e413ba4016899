package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"interop-lab/domain"
)

type Config struct {
	Host                 string        `env:"HOST,default=localhost" validate:"required"`
	Port                 int           `env:"PORT,default=4222" validate:"gt=0"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO" validate:"required"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,default=/tmp/interop-lab/journal" validate:"required"`
	SinkBufferSize       int           `env:"SINK_BUFFER_SIZE,default=64" validate:"gt=0"`
	JournalBufferSize    int           `env:"JOURNAL_BUFFER_SIZE,default=256" validate:"gt=0"`
	LimitJournalEntries  *int          `env:"LIMIT_JOURNAL_ENTRIES"`
	TelemetryInterval    time.Duration `env:"TELEMETRY_INTERVAL,default=30s" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	// DESKTOP_CHANNELS is a comma-separated list of id:name:color triples.
	// The list is fixed for the process lifetime; the engine never mutates it.
	DesktopChannels string `env:"DESKTOP_CHANNELS"`
}

// Validate applies the struct rules above.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// defaultDesktopChannels mirrors the standard desktop channel set shipped
// with the channel selector UI. Ids are stable across sessions.
var defaultDesktopChannels = []domain.Channel{
	domain.NewDesktopChannel("red", "Red", "#FF0000"),
	domain.NewDesktopChannel("orange", "Orange", "#FF8000"),
	domain.NewDesktopChannel("yellow", "Yellow", "#FFFF00"),
	domain.NewDesktopChannel("green", "Green", "#00FF00"),
	domain.NewDesktopChannel("blue", "Blue", "#0000FF"),
	domain.NewDesktopChannel("purple", "Purple", "#8000FF"),
	domain.NewDesktopChannel("magenta", "Magenta", "#FF00FF"),
	domain.NewDesktopChannel("cyan", "Cyan", "#00FFFF"),
}

// ParseDesktopChannels turns the DESKTOP_CHANNELS value into channel
// records, falling back to the built-in set when the variable is empty.
func (c Config) ParseDesktopChannels() ([]domain.Channel, error) {
	if strings.TrimSpace(c.DesktopChannels) == "" {
		return defaultDesktopChannels, nil
	}

	var channels []domain.Channel
	for _, triple := range strings.Split(c.DesktopChannels, ",") {
		parts := strings.SplitN(strings.TrimSpace(triple), ":", 3)
		if len(parts) != 3 || parts[0] == "" {
			return nil, fmt.Errorf("DESKTOP_CHANNELS entry %q must be id:name:color", triple)
		}
		channels = append(channels, domain.NewDesktopChannel(parts[0], parts[1], parts[2]))
	}
	return channels, nil
}
