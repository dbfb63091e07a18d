package docsearch

import (
	"context"
	"time"
)

// Collection is a named set of shards imported from one search data source.
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Section   string    `json:"section"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the collection contains invalid fields.
func (c *Collection) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "collection name required")
	}
	if c.Source == "" {
		return Errorf(EINVALID, "collection source required")
	}
	return nil
}

// CollectionService represents a service for managing collections.
type CollectionService interface {
	// CreateCollection creates a new collection.
	// Returns ECONFLICT if the name is taken.
	CreateCollection(ctx context.Context, c *Collection) error

	// FindCollectionByID retrieves a collection by ID.
	// Returns ENOTFOUND if collection does not exist.
	FindCollectionByID(ctx context.Context, id string) (*Collection, error)

	// FindCollections retrieves collections matching the filter.
	FindCollections(ctx context.Context, filter CollectionFilter) ([]*Collection, error)

	// UpdateCollection updates an existing collection.
	// Returns ENOTFOUND if collection does not exist.
	UpdateCollection(ctx context.Context, id string, upd CollectionUpdate) (*Collection, error)

	// DeleteCollection permanently removes a collection and its shards.
	// Returns ENOTFOUND if collection does not exist.
	DeleteCollection(ctx context.Context, id string) error
}

// CollectionFilter represents a filter for FindCollections.
type CollectionFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CollectionUpdate represents fields that can be updated on a collection.
type CollectionUpdate struct {
	Source  *string `json:"source"`
	Section *string `json:"section"`
}

// ShardRepository persists the shards of collections.
type ShardRepository interface {
	// SaveShard stores shard in the collection, replacing the previous
	// version. Reports false without writing when the stored checksum
	// already matches.
	SaveShard(ctx context.Context, collectionID string, shard *Shard) (bool, error)

	// FindShard retrieves a stored shard. A shard never saved is returned
	// empty, as from any ShardSource.
	FindShard(ctx context.Context, collectionID, id string) (*Shard, error)

	// FindShardIDs lists the identifiers stored in the collection in
	// ascending order.
	FindShardIDs(ctx context.Context, collectionID string) ([]string, error)
}

// CollectionSource serves the shards of one stored collection.
type CollectionSource struct {
	Repository   ShardRepository
	CollectionID string
}

// Ensure CollectionSource implements ShardSource.
var _ ShardSource = (*CollectionSource)(nil)

// Shard returns the stored shard with the given identifier.
func (s *CollectionSource) Shard(ctx context.Context, id string) (*Shard, error) {
	return s.Repository.FindShard(ctx, s.CollectionID, id)
}

// ShardIDs lists the stored shard identifiers.
func (s *CollectionSource) ShardIDs(ctx context.Context) ([]string, error) {
	return s.Repository.FindShardIDs(ctx, s.CollectionID)
}
