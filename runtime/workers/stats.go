package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ConnectionStats and RoomStats expose the gauges the stats worker samples.
// Implemented by the runtime state holders; only counts cross this
// boundary, never handles.
type ConnectionStats interface {
	Stats() (users, connections int)
}

type RoomStats interface {
	Rooms() int
}

// StatsWorker periodically reports presence gauges together with the
// process's own CPU and memory footprint. Purely observational.
type StatsWorker struct {
	log      *slog.Logger
	registry ConnectionStats
	rooms    RoomStats
	interval time.Duration
}

func NewStatsWorker(log *slog.Logger, registry ConnectionStats,
	rooms RoomStats, interval time.Duration) *StatsWorker {
	return &StatsWorker{log: log, registry: registry, rooms: rooms, interval: interval}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping stats reporting")
			return nil
		case <-ticker.C:
			users, connections := w.registry.Stats()
			rooms := w.rooms.Rooms()

			cpu, cpuErr := self.CPUPercent()
			if cpuErr != nil {
				w.log.Debug("CPU sampling failed", "err", cpuErr)
			}
			var rss uint64
			if mem, memErr := self.MemoryInfo(); memErr == nil {
				rss = mem.RSS
			}

			w.log.Info("Live stats",
				"online_users", users,
				"connections", connections,
				"rooms", rooms,
				"cpu_percent", cpu,
				"ram_bytes", rss)
		}
	}
}
