package docsearch

import (
	"sort"
	"strings"
	"unicode"
)

// Entry is a single search target: one symbol linked to one page.
type Entry struct {
	Key   string `json:"key"`   // normalized key used for matching
	Label string `json:"label"` // name as displayed
	URL   string `json:"url"`   // relative link, optionally with #anchor
	Scope string `json:"scope"` // containing namespace or class, "" when unambiguous
}

// KeyEntries groups the entries stored under one normalized key,
// in declaration order.
type KeyEntries struct {
	Key     string  `json:"key"`
	Entries []Entry `json:"entries"`
}

// Shard is one partition of the search table.
// Keys are in strictly ascending order; a loaded shard is never modified.
type Shard struct {
	ID       string       `json:"id"`
	Keys     []KeyEntries `json:"keys"`
	Checksum uint64       `json:"checksum"` // hash of the raw shard data, 0 if unknown
}

// Len returns the total number of entries in the shard.
func (s *Shard) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, k := range s.Keys {
		n += len(k.Entries)
	}
	return n
}

// Validate returns EMALFORMED if the shard violates the producer contract:
// keys must be non-empty and strictly ascending, and every entry needs
// a label and a URL.
func (s *Shard) Validate() error {
	if s == nil {
		return Errorf(EMALFORMED, "shard required")
	}
	for i, k := range s.Keys {
		if k.Key == "" {
			return MalformedShard(s.ID, "empty key at position %d", i)
		}
		if i > 0 && s.Keys[i-1].Key >= k.Key {
			return MalformedShard(s.ID, "key %q does not sort after %q", k.Key, s.Keys[i-1].Key)
		}
		if len(k.Entries) == 0 {
			return MalformedShard(s.ID, "key %q has no entries", k.Key)
		}
		for _, e := range k.Entries {
			if e.Label == "" {
				return MalformedShard(s.ID, "key %q has an entry without label", k.Key)
			}
			if e.URL == "" {
				return MalformedShard(s.ID, "key %q has an entry without url", k.Key)
			}
		}
	}
	return nil
}

// Lookup returns the entries stored under exactly key.
// It relies on the ascending key order.
func (s *Shard) Lookup(key string) []Entry {
	if s == nil {
		return nil
	}
	i := sort.Search(len(s.Keys), func(i int) bool { return s.Keys[i].Key >= key })
	if i < len(s.Keys) && s.Keys[i].Key == key {
		return s.Keys[i].Entries
	}
	return nil
}

// ShardState is the load state of a shard within a store.
type ShardState int

// Shard load states.
const (
	NotLoaded ShardState = iota
	Loading
	Loaded
	Failed
)

func (s ShardState) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Normalize converts a symbol name or query text into its matching form:
// trimmed, lowercased, with separators and whitespace removed.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if isSeparator(r) {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', '.', ':':
		return true
	}
	return unicode.IsSpace(r)
}
