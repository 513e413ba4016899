// Package observability aggregates runtime metrics of the engine.
package observability

import (
	"sync/atomic"
	"time"
)

// EngineStats is the snapshot handed to telemetry and the debug tooling.
type EngineStats struct {
	BroadcastsRouted uint64 `json:"broadcasts_routed"`
	Deliveries       uint64 `json:"deliveries"`
	DeliveryFaults   uint64 `json:"delivery_faults"`
	JournalDrops     uint64 `json:"journal_drops"`
	ConnectedWindows int    `json:"connected_windows"`
	AppChannels      int    `json:"app_channels"`
	Uptime           string `json:"uptime"`
}

// StatsRecorder keeps atomic counters for the broadcast pipeline.
// Gauges (connected windows, app channels) are sampled by the caller
// at snapshot time rather than tracked here.
type StatsRecorder struct {
	broadcastsRouted uint64
	deliveries       uint64
	deliveryFaults   uint64
	journalDrops     uint64
	startTime        time.Time
}

func NewStatsRecorder() *StatsRecorder {
	return &StatsRecorder{startTime: time.Now()}
}

func (s *StatsRecorder) IncrBroadcasts() {
	atomic.AddUint64(&s.broadcastsRouted, 1)
}

func (s *StatsRecorder) AddDeliveries(n uint64) {
	atomic.AddUint64(&s.deliveries, n)
}

func (s *StatsRecorder) IncrDeliveryFaults() {
	atomic.AddUint64(&s.deliveryFaults, 1)
}

func (s *StatsRecorder) IncrJournalDrops() {
	atomic.AddUint64(&s.journalDrops, 1)
}

// Snapshot returns the current counter values plus caller-provided gauges.
func (s *StatsRecorder) Snapshot(connectedWindows, appChannels int) EngineStats {
	return EngineStats{
		BroadcastsRouted: atomic.LoadUint64(&s.broadcastsRouted),
		Deliveries:       atomic.LoadUint64(&s.deliveries),
		DeliveryFaults:   atomic.LoadUint64(&s.deliveryFaults),
		JournalDrops:     atomic.LoadUint64(&s.journalDrops),
		ConnectedWindows: connectedWindows,
		AppChannels:      appChannels,
		Uptime:           time.Since(s.startTime).Round(time.Second).String(),
	}
}
