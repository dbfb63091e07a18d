// Package bloom provides probabilistic key membership filters for loaded
// shards, so exact-key lookups can skip shards that cannot hold the key.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/docsearch"
)

// DefaultFalsePositiveRate is used by NewKeyFilter.
const DefaultFalsePositiveRate = 0.01

// Filter wraps a Bloom filter over normalized keys.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewKeyFilter builds a filter holding every key of shard.
func NewKeyFilter(shard *docsearch.Shard) *Filter {
	f := NewFilter(uint(len(shard.Keys)), DefaultFalsePositiveRate)
	for _, k := range shard.Keys {
		f.Add(k.Key)
	}
	return f
}

// Add adds a key to the filter.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test reports whether key might be in the filter.
// A false result is definitive.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// EstimatedCount returns the approximate number of keys in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
