package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"interop-lab/contract"
	"interop-lab/observability"
)

var _ contract.Worker = (*TelemetryWorker)(nil)

// StatsSource provides the engine snapshot consumed by telemetry.
type StatsSource interface {
	Stats() observability.EngineStats
}

// TelemetryWorker periodically logs engine counters together with the
// process's own memory and CPU figures.
type TelemetryWorker struct {
	log      *slog.Logger
	source   StatsSource
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, source StatsSource, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, source: source, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := w.source.Stats()
			w.log.Info("Engine telemetry",
				"broadcasts_routed", stats.BroadcastsRouted,
				"deliveries", stats.Deliveries,
				"delivery_faults", stats.DeliveryFaults,
				"journal_drops", stats.JournalDrops,
				"connected_windows", stats.ConnectedWindows,
				"app_channels", stats.AppChannels,
				"uptime", stats.Uptime,
				"ram_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}

// selfStats retrieves technical metrics (Memory and CPU) for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
