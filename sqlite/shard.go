package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docsearch"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ docsearch.ShardRepository = (*ShardService)(nil)

// ShardService implements docsearch.ShardRepository using SQLite.
type ShardService struct {
	db *DB
}

// NewShardService creates a new ShardService.
func NewShardService(db *DB) *ShardService {
	return &ShardService{db: db}
}

// checksum returns the shard's producer checksum, or one computed from its
// entries when the producer supplied none.
func checksum(shard *docsearch.Shard) uint64 {
	if shard.Checksum != 0 {
		return shard.Checksum
	}
	h := xxhash.New()
	for _, ke := range shard.Keys {
		for _, e := range ke.Entries {
			_, _ = h.WriteString(e.Key + "\x00" + e.Label + "\x00" + e.URL + "\x00" + e.Scope + "\n")
		}
	}
	return h.Sum64()
}

// SaveShard replaces the stored version of shard in one transaction.
func (s *ShardService) SaveShard(ctx context.Context, collectionID string, shard *docsearch.Shard) (bool, error) {
	if err := shard.Validate(); err != nil {
		return false, err
	}
	sum := formatChecksum(checksum(shard))

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var stored string
	err = tx.QueryRowContext(ctx, `
		SELECT checksum FROM shards WHERE collection_id = ? AND id = ?
	`, collectionID, shard.ID).Scan(&stored)
	switch {
	case err == nil && stored == sum:
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM shards WHERE collection_id = ? AND id = ?
	`, collectionID, shard.ID); err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO shards (collection_id, id, checksum, key_count, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, collectionID, shard.ID, sum, len(shard.Keys), time.Now().UTC().Format(time.RFC3339))
	// The row was just deleted, so only the collection reference can fail.
	if errors.Is(err, sqlite3.CONSTRAINT) {
		return false, docsearch.Errorf(docsearch.ENOTFOUND, "collection not found")
	} else if err != nil {
		return false, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (collection_id, shard_id, position, key, label, url, scope)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	position := 0
	for _, ke := range shard.Keys {
		for _, e := range ke.Entries {
			if _, err := stmt.ExecContext(ctx, collectionID, shard.ID, position, ke.Key, e.Label, e.URL, e.Scope); err != nil {
				return false, err
			}
			position++
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// FindShard retrieves a stored shard, or an empty shard if none was saved.
func (s *ShardService) FindShard(ctx context.Context, collectionID, id string) (*docsearch.Shard, error) {
	shard := &docsearch.Shard{ID: id}

	var sum string
	err := s.db.QueryRowContext(ctx, `
		SELECT checksum FROM shards WHERE collection_id = ? AND id = ?
	`, collectionID, id).Scan(&sum)
	if errors.Is(err, sql.ErrNoRows) {
		return shard, nil
	} else if err != nil {
		return nil, err
	}
	if shard.Checksum, err = strconv.ParseUint(sum, 16, 64); err != nil {
		return nil, fmt.Errorf("failed to parse checksum: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, label, url, scope
		FROM entries
		WHERE collection_id = ? AND shard_id = ?
		ORDER BY position
	`, collectionID, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e docsearch.Entry
		if err := rows.Scan(&e.Key, &e.Label, &e.URL, &e.Scope); err != nil {
			return nil, err
		}
		if n := len(shard.Keys); n > 0 && shard.Keys[n-1].Key == e.Key {
			shard.Keys[n-1].Entries = append(shard.Keys[n-1].Entries, e)
			continue
		}
		shard.Keys = append(shard.Keys, docsearch.KeyEntries{Key: e.Key, Entries: []docsearch.Entry{e}})
	}

	return shard, rows.Err()
}

// FindShardIDs lists the stored shard identifiers in ascending order.
func (s *ShardService) FindShardIDs(ctx context.Context, collectionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM shards WHERE collection_id = ? ORDER BY id
	`, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
