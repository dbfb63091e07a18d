// Package slog provides logging decorators for docsearch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsearch"
)

// Ensure LoggingSource implements docsearch.ShardSource.
var _ docsearch.ShardSource = (*LoggingSource)(nil)

// LoggingSource wraps a ShardSource with logging.
type LoggingSource struct {
	next   docsearch.ShardSource
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next docsearch.ShardSource, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// Shard delegates to the wrapped source and logs the fetch.
func (s *LoggingSource) Shard(ctx context.Context, id string) (shard *docsearch.Shard, err error) {
	defer func(begin time.Time) {
		s.logger.Info("shard fetch",
			"shard", id,
			"entries", shard.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Shard(ctx, id)
}

// ShardIDs delegates to the wrapped source and logs the listing.
func (s *LoggingSource) ShardIDs(ctx context.Context) (ids []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("shard listing",
			"count", len(ids),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ShardIDs(ctx)
}
