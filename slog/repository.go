package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsearch"
)

// Ensure LoggingShardRepository implements docsearch.ShardRepository.
var _ docsearch.ShardRepository = (*LoggingShardRepository)(nil)

// LoggingShardRepository wraps a ShardRepository with logging of writes.
type LoggingShardRepository struct {
	next   docsearch.ShardRepository
	logger *slog.Logger
}

// NewLoggingShardRepository creates a new LoggingShardRepository.
func NewLoggingShardRepository(next docsearch.ShardRepository, logger *slog.Logger) *LoggingShardRepository {
	return &LoggingShardRepository{next: next, logger: logger}
}

// SaveShard delegates to the wrapped repository and logs the outcome.
func (r *LoggingShardRepository) SaveShard(ctx context.Context, collectionID string, shard *docsearch.Shard) (saved bool, err error) {
	var id string
	if shard != nil {
		id = shard.ID
	}
	defer func(begin time.Time) {
		r.logger.Info("shard save",
			"collection", collectionID,
			"shard", id,
			"entries", shard.Len(),
			"saved", saved,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.SaveShard(ctx, collectionID, shard)
}

// FindShard delegates to the wrapped repository.
func (r *LoggingShardRepository) FindShard(ctx context.Context, collectionID, id string) (*docsearch.Shard, error) {
	return r.next.FindShard(ctx, collectionID, id)
}

// FindShardIDs delegates to the wrapped repository.
func (r *LoggingShardRepository) FindShardIDs(ctx context.Context, collectionID string) ([]string, error) {
	return r.next.FindShardIDs(ctx, collectionID)
}
