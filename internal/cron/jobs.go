package cronrunner

import (
	"context"

	"go.uber.org/zap"

	"fieldlogger/internal/logger"
	"fieldlogger/internal/repository"
	"fieldlogger/internal/stream"
)

type StatsSource interface {
	Stats() stream.Stats
}

// Notifier tells subscribers that the stored set changed.
type Notifier interface {
	Notify(ctx context.Context) error
}

// StreamStatsJob logs the registry counters.
func StreamStatsJob(src StatsSource, log *zap.Logger) func(context.Context) error {
	log = logger.OrNop(log)
	return func(ctx context.Context) error {
		st := src.Stats()
		log.Info("stream stats",
			zap.Int("open", st.Open),
			zap.Uint64("delivered", st.Delivered),
			zap.Uint64("dropped", st.Dropped),
			zap.Uint64("failed", st.Failed),
		)
		return nil
	}
}

// PurgeJob deletes every inspection and pushes the now empty snapshot.
func PurgeJob(p repository.Purger, n Notifier, log *zap.Logger) func(context.Context) error {
	log = logger.OrNop(log)
	return func(ctx context.Context) error {
		count, err := p.PurgeAll(ctx)
		if err != nil {
			return err
		}
		log.Info("inspections purged", zap.Int64("count", count))
		if n == nil {
			return nil
		}
		return n.Notify(ctx)
	}
}
