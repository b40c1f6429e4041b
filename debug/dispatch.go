package debug

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/ultron-go/dispatch"
)

// StatsSource is satisfied by *dispatch.Pool.
type StatsSource interface {
	Stats() dispatch.Stats
}

// StartDispatchLogger periodically logs dispatcher counters.
func StartDispatchLogger(ctx context.Context, interval time.Duration, src StatsSource, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	every(ctx, interval, func() { LogDispatchStats(logger, src.Stats()) })
}

// LogDispatchStats writes one dispatch-stats record.
func LogDispatchStats(logger *slog.Logger, s dispatch.Stats) {
	logger.Info("dispatch-stats",
		slog.Int("workers", s.Workers),
		slog.Uint64("submitted", s.Submitted),
		slog.Uint64("completed", s.Completed),
		slog.Uint64("failed", s.Failed),
		slog.Uint64("discarded", s.Discarded),
		slog.Int64("in_flight", s.InFlight),
		slog.Duration("avg_task", s.AvgTask),
	)
}
