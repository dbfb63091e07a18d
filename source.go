package docsearch

import (
	"context"
	"sort"
)

// ShardSource retrieves shards by identifier.
// A source returns an empty shard for an identifier it has no data for;
// failures to reach the underlying storage are returned as errors.
type ShardSource interface {
	// Shard fetches and decodes the shard with the given identifier.
	Shard(ctx context.Context, id string) (*Shard, error)

	// ShardIDs lists the identifiers the source can serve, in ascending order.
	ShardIDs(ctx context.Context) ([]string, error)
}

// Fetcher retrieves raw shard files by name, relative to a search data root.
// Returns ENOTFOUND if the file does not exist.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Renderer draws a settled result list.
// It is invoked at most once per settled query, with an empty slice when
// nothing matched.
type Renderer interface {
	Render(results []Entry, query string)
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(results []Entry, query string)

// Render calls f(results, query).
func (f RenderFunc) Render(results []Entry, query string) {
	f(results, query)
}

// Ensure Table implements ShardSource.
var _ ShardSource = (Table)(nil)

// Table is an in-memory ShardSource for producers that deliver all shards at once.
type Table map[string]*Shard

// Shard returns the shard stored under id, or an empty shard.
func (t Table) Shard(_ context.Context, id string) (*Shard, error) {
	if s, ok := t[id]; ok {
		return s, nil
	}
	return &Shard{ID: id}, nil
}

// ShardIDs returns the table's shard identifiers in ascending order.
func (t Table) ShardIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
