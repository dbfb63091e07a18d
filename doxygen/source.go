package doxygen

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fwojciec/docsearch"
)

// DefaultSection is the Doxygen index section that holds every symbol.
const DefaultSection = "all"

// Ensure Source implements docsearch.ShardSource.
var _ docsearch.ShardSource = (*Source)(nil)

// Source serves the shards of one Doxygen index section, reading files
// from a search directory through a Fetcher.
type Source struct {
	fetcher docsearch.Fetcher
	section string

	mu      sync.Mutex
	current *Section
}

// NewSource returns a Source for the named section ("all", "classes", ...).
// An empty section selects DefaultSection.
func NewSource(fetcher docsearch.Fetcher, section string) *Source {
	if section == "" {
		section = DefaultSection
	}
	return &Source{fetcher: fetcher, section: section}
}

// Shard fetches and decodes the shard for the character id. A character
// the manifest lists no content for yields an empty shard.
func (s *Source) Shard(ctx context.Context, id string) (*docsearch.Shard, error) {
	sec, err := s.manifest(ctx)
	if err != nil {
		return nil, err
	}
	name, ok := sec.FileName(id)
	if !ok {
		return &docsearch.Shard{ID: id}, nil
	}
	data, err := s.fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, docsearch.ShardUnavailable(id, err)
	}
	return ParseShard(id, data)
}

// ShardIDs returns the characters the section has shards for.
func (s *Source) ShardIDs(ctx context.Context) ([]string, error) {
	sec, err := s.manifest(ctx)
	if err != nil {
		return nil, err
	}
	ids := sec.IDs()
	sort.Strings(ids)
	return ids, nil
}

// manifest returns the configured section, fetching the manifest once.
// A failed fetch is retried by the next call.
func (s *Source) manifest(ctx context.Context) (*Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return s.current, nil
	}

	var data []byte
	var err error
	for _, name := range manifestFiles {
		data, err = s.fetcher.Fetch(ctx, name)
		if err == nil || docsearch.ErrorCode(err) != docsearch.ENOTFOUND {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("fetch search manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	sec, ok := m.Section(s.section)
	if !ok {
		return nil, docsearch.Errorf(docsearch.ENOTFOUND, "search section %q not found", s.section)
	}
	s.current = sec
	return sec, nil
}
