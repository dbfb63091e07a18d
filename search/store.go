// Package search provides the stateful half of the engine: a shard store
// that loads each shard once per session, and query sessions that debounce
// input and render only the latest query's results.
package search

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/bloom"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultFetchTimeout bounds a single shard fetch. The fetch is detached
// from the caller, so this is the only limit on it.
const DefaultFetchTimeout = 30 * time.Second

// ShardLoader loads shards by identifier.
type ShardLoader interface {
	Load(ctx context.Context, id string) (*docsearch.Shard, error)
}

// Ensure Store implements ShardLoader.
var _ ShardLoader = (*Store)(nil)

// Store caches shards for the lifetime of a search session.
// Concurrent loads of the same shard share one fetch. It is safe for
// concurrent use by multiple goroutines.
type Store struct {
	source       docsearch.ShardSource
	logger       *slog.Logger
	fetchTimeout time.Duration

	group   singleflight.Group
	fetches atomic.Int64

	mu    sync.RWMutex
	slots map[string]*slot
}

type slot struct {
	state  docsearch.ShardState
	shard  *docsearch.Shard
	filter *bloom.Filter
	err    error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for fetch failures.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithFetchTimeout bounds each shard fetch.
// Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.fetchTimeout = d
	}
}

// NewStore creates a Store that fetches shards from source.
func NewStore(source docsearch.ShardSource, opts ...StoreOption) *Store {
	s := &Store{
		source:       source,
		logger:       slog.New(slog.DiscardHandler),
		fetchTimeout: DefaultFetchTimeout,
		slots:        make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the shard with the given identifier, fetching it on first
// use. A fetch failure returns an EUNAVAILABLE error and is retried on the
// next call; a shard that fails validation returns EMALFORMED and is never
// refetched.
//
// Cancelling ctx stops the wait but not the fetch, which still populates
// the cache when it completes.
func (s *Store) Load(ctx context.Context, id string) (*docsearch.Shard, error) {
	s.mu.RLock()
	sl := s.slots[id]
	s.mu.RUnlock()
	if sl != nil {
		switch {
		case sl.state == docsearch.Loaded:
			return sl.shard, nil
		case sl.state == docsearch.Failed && docsearch.ErrorCode(sl.err) == docsearch.EMALFORMED:
			return nil, sl.err
		}
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(id, func() (any, error) {
		return s.fetch(fetchCtx, id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shard, _ := res.Val.(*docsearch.Shard)
		return shard, nil
	}
}

func (s *Store) fetch(ctx context.Context, id string) (*docsearch.Shard, error) {
	s.mu.Lock()
	if sl, ok := s.slots[id]; ok && sl.state == docsearch.Loaded {
		s.mu.Unlock()
		return sl.shard, nil
	}
	s.slots[id] = &slot{state: docsearch.Loading}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	s.fetches.Add(1)
	shard, err := s.source.Shard(ctx, id)
	if err != nil {
		switch docsearch.ErrorCode(err) {
		case docsearch.EMALFORMED, docsearch.EUNAVAILABLE:
		default:
			err = docsearch.ShardUnavailable(id, err)
		}
		return nil, s.fail(id, err)
	}
	if shard == nil {
		return nil, s.fail(id, docsearch.MalformedShard(id, "source returned no data"))
	}
	if shard.ID == "" {
		shard.ID = id
	}
	if err := shard.Validate(); err != nil {
		return nil, s.fail(id, err)
	}

	s.mu.Lock()
	s.slots[id] = &slot{
		state:  docsearch.Loaded,
		shard:  shard,
		filter: bloom.NewKeyFilter(shard),
	}
	s.mu.Unlock()
	return shard, nil
}

func (s *Store) fail(id string, err error) error {
	s.mu.Lock()
	s.slots[id] = &slot{state: docsearch.Failed, err: err}
	s.mu.Unlock()
	s.logger.Warn("shard load failed",
		"shard", id,
		"code", docsearch.ErrorCode(err),
		"err", err,
	)
	return err
}

// Preload loads every shard in ids concurrently. All loads run to
// completion; the first error is returned.
func (s *Store) Preload(ctx context.Context, ids []string) error {
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			_, err := s.Load(ctx, id)
			return err
		})
	}
	return g.Wait()
}

// Lookup returns the entries stored under exactly key across the shards
// in ids. Shards that fail to load contribute nothing; the first load
// error is returned alongside whatever was found.
func (s *Store) Lookup(ctx context.Context, ids []string, key string) ([]docsearch.Entry, error) {
	var results []docsearch.Entry
	var firstErr error
	for _, id := range ids {
		if _, err := s.Load(ctx, id); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.mu.RLock()
		sl := s.slots[id]
		s.mu.RUnlock()
		if !sl.filter.Test(key) {
			continue
		}
		results = append(results, sl.shard.Lookup(key)...)
	}
	return results, firstErr
}

// State returns the load state of a shard.
func (s *Store) State(id string) docsearch.ShardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sl, ok := s.slots[id]; ok {
		return sl.state
	}
	return docsearch.NotLoaded
}

// Loaded returns the identifiers of loaded shards in ascending order.
func (s *Store) Loaded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, sl := range s.slots {
		if sl.state == docsearch.Loaded {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Fetches returns how many times the store has called its source.
func (s *Store) Fetches() int64 {
	return s.fetches.Load()
}
