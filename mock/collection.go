package mock

import (
	"context"

	"github.com/fwojciec/docsearch"
)

var _ docsearch.CollectionService = (*CollectionService)(nil)

// CollectionService is a mock implementation of docsearch.CollectionService.
type CollectionService struct {
	CreateCollectionFn   func(ctx context.Context, c *docsearch.Collection) error
	FindCollectionByIDFn func(ctx context.Context, id string) (*docsearch.Collection, error)
	FindCollectionsFn    func(ctx context.Context, filter docsearch.CollectionFilter) ([]*docsearch.Collection, error)
	UpdateCollectionFn   func(ctx context.Context, id string, upd docsearch.CollectionUpdate) (*docsearch.Collection, error)
	DeleteCollectionFn   func(ctx context.Context, id string) error
}

func (s *CollectionService) CreateCollection(ctx context.Context, c *docsearch.Collection) error {
	return s.CreateCollectionFn(ctx, c)
}

func (s *CollectionService) FindCollectionByID(ctx context.Context, id string) (*docsearch.Collection, error) {
	return s.FindCollectionByIDFn(ctx, id)
}

func (s *CollectionService) FindCollections(ctx context.Context, filter docsearch.CollectionFilter) ([]*docsearch.Collection, error) {
	return s.FindCollectionsFn(ctx, filter)
}

func (s *CollectionService) UpdateCollection(ctx context.Context, id string, upd docsearch.CollectionUpdate) (*docsearch.Collection, error) {
	return s.UpdateCollectionFn(ctx, id, upd)
}

func (s *CollectionService) DeleteCollection(ctx context.Context, id string) error {
	return s.DeleteCollectionFn(ctx, id)
}

var _ docsearch.ShardRepository = (*ShardRepository)(nil)

// ShardRepository is a mock implementation of docsearch.ShardRepository.
type ShardRepository struct {
	SaveShardFn    func(ctx context.Context, collectionID string, shard *docsearch.Shard) (bool, error)
	FindShardFn    func(ctx context.Context, collectionID, id string) (*docsearch.Shard, error)
	FindShardIDsFn func(ctx context.Context, collectionID string) ([]string, error)
}

func (r *ShardRepository) SaveShard(ctx context.Context, collectionID string, shard *docsearch.Shard) (bool, error) {
	return r.SaveShardFn(ctx, collectionID, shard)
}

func (r *ShardRepository) FindShard(ctx context.Context, collectionID, id string) (*docsearch.Shard, error) {
	return r.FindShardFn(ctx, collectionID, id)
}

func (r *ShardRepository) FindShardIDs(ctx context.Context, collectionID string) ([]string, error) {
	return r.FindShardIDsFn(ctx, collectionID)
}
