package mock

import (
	"context"

	"github.com/fwojciec/docsearch"
)

var _ docsearch.ShardSource = (*ShardSource)(nil)

// ShardSource is a mock implementation of docsearch.ShardSource.
type ShardSource struct {
	ShardFn    func(ctx context.Context, id string) (*docsearch.Shard, error)
	ShardIDsFn func(ctx context.Context) ([]string, error)
}

func (s *ShardSource) Shard(ctx context.Context, id string) (*docsearch.Shard, error) {
	return s.ShardFn(ctx, id)
}

func (s *ShardSource) ShardIDs(ctx context.Context) ([]string, error) {
	return s.ShardIDsFn(ctx)
}

var _ docsearch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docsearch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, name string) ([]byte, error)
}

func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f.FetchFn(ctx, name)
}
