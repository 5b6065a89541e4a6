package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sqlpager/internal/adapter/scheduler"
	"sqlpager/pkg/pager"
)

// healthJob pings every open connection and logs its pool statistics.
func healthJob(conns *connSet, log *slog.Logger) scheduler.JobFunc {
	return func(ctx context.Context) error {
		var errs []error
		conns.ForEach(func(name string, c *pager.Conn) {
			stats := c.DB().Stats()
			attrs := []any{
				slog.String("connection", name),
				slog.Int("open", stats.OpenConnections),
				slog.Int("in_use", stats.InUse),
				slog.Int("idle", stats.Idle),
				slog.Int64("wait_count", stats.WaitCount),
				slog.Duration("wait_duration", stats.WaitDuration),
			}

			if err := c.DB().PingContext(ctx); err != nil {
				log.Warn("connection unhealthy", append(attrs, slog.Any("err", err))...)
				errs = append(errs, fmt.Errorf("connection %s: %w", name, err))
				return
			}
			log.Debug("connection healthy", attrs...)
		})
		return errors.Join(errs...)
	}
}
