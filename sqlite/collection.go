package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/docsearch"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ docsearch.CollectionService = (*CollectionService)(nil)

// CollectionService implements docsearch.CollectionService using SQLite.
type CollectionService struct {
	db *DB
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(db *DB) *CollectionService {
	return &CollectionService{db: db}
}

// CreateCollection creates a new collection.
func (s *CollectionService) CreateCollection(ctx context.Context, c *docsearch.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.ID = uuid.New().String()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, source, section, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Source, c.Section,
		c.CreatedAt.Format(time.RFC3339), c.UpdatedAt.Format(time.RFC3339))

	// Names are the only unique column besides the generated ID.
	if errors.Is(err, sqlite3.CONSTRAINT) {
		return docsearch.Errorf(docsearch.ECONFLICT, "collection %q already exists", c.Name)
	}
	return err
}

// FindCollectionByID retrieves a collection by ID.
func (s *CollectionService) FindCollectionByID(ctx context.Context, id string) (*docsearch.Collection, error) {
	collections, err := s.FindCollections(ctx, docsearch.CollectionFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		return nil, docsearch.Errorf(docsearch.ENOTFOUND, "collection not found")
	}
	return collections[0], nil
}

// FindCollections retrieves collections matching the filter, newest first.
func (s *CollectionService) FindCollections(ctx context.Context, filter docsearch.CollectionFilter) ([]*docsearch.Collection, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, source, section, created_at, updated_at FROM collections WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at DESC, name")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*docsearch.Collection
	for rows.Next() {
		var c docsearch.Collection
		var createdAt, updatedAt string

		if err := rows.Scan(&c.ID, &c.Name, &c.Source, &c.Section, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		if c.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		collections = append(collections, &c)
	}

	return collections, rows.Err()
}

// UpdateCollection updates an existing collection.
func (s *CollectionService) UpdateCollection(ctx context.Context, id string, upd docsearch.CollectionUpdate) (*docsearch.Collection, error) {
	// First check if collection exists
	c, err := s.FindCollectionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Source != nil {
		c.Source = *upd.Source
	}
	if upd.Section != nil {
		c.Section = *upd.Section
	}

	// Validate before persisting
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE collections
		SET source = ?, section = ?, updated_at = ?
		WHERE id = ?
	`, c.Source, c.Section, c.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteCollection permanently removes a collection and its shards.
func (s *CollectionService) DeleteCollection(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return docsearch.Errorf(docsearch.ENOTFOUND, "collection not found")
	}

	return nil
}
