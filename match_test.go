package docsearch_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	t.Run("prefix query returns only matching key", func(t *testing.T) {
		t.Parallel()

		results := docsearch.Match(newSShard(), "sec")

		assert.Equal(t, []docsearch.Entry{
			{Key: "secp256k1fet", Label: "secp256k1_fe_t", URL: "struct1.html"},
		}, results)
	})

	t.Run("single character returns all entries in stored order", func(t *testing.T) {
		t.Parallel()

		results := docsearch.Match(newSShard(), "s")

		labels := make([]string, 0, len(results))
		for _, e := range results {
			labels = append(labels, e.Label+"@"+e.URL)
		}
		assert.Equal(t, []string{
			"secp256k1_fe_t@struct1.html",
			"SendCoinsReturn@struct2.html",
			"SendCoinsReturn@struct3.html",
			"SplashScreen@class2.html",
		}, labels)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docsearch.Match(newSShard(), "xyz"))
	})

	t.Run("matches substrings, not only prefixes", func(t *testing.T) {
		t.Parallel()

		results := docsearch.Match(newSShard(), "screen")

		assert.Len(t, results, 1)
		assert.Equal(t, "SplashScreen", results[0].Label)
	})

	t.Run("empty query and nil shard match nothing", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, docsearch.Match(newSShard(), ""))
		assert.Nil(t, docsearch.Match(nil, "s"))
	})

	t.Run("is sound and complete for every substring of every key", func(t *testing.T) {
		t.Parallel()

		shard := newSShard()
		for _, k := range shard.Keys {
			for i := 0; i < len(k.Key); i++ {
				for j := i + 1; j <= len(k.Key); j++ {
					q := k.Key[i:j]
					results := docsearch.Match(shard, q)
					for _, e := range results {
						assert.True(t, strings.Contains(e.Key, q), "%q does not contain %q", e.Key, q)
					}
					for _, want := range k.Entries {
						assert.Contains(t, results, want)
					}
				}
			}
		}
	})

	t.Run("repeated queries give identical ordering", func(t *testing.T) {
		t.Parallel()

		shard := newSShard()
		first := docsearch.Match(shard, "s")
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, docsearch.Match(shard, "s"))
		}
	})
}

func TestMatchAll(t *testing.T) {
	t.Parallel()

	other := &docsearch.Shard{ID: "se", Keys: []docsearch.KeyEntries{
		{Key: "secure", Entries: []docsearch.Entry{{Key: "secure", Label: "secure", URL: "s.html"}}},
	}}

	results := docsearch.MatchAll([]*docsearch.Shard{newSShard(), nil, other}, "sec")

	assert.Len(t, results, 2)
	assert.Equal(t, "secp256k1_fe_t", results[0].Label)
	assert.Equal(t, "secure", results[1].Label)
}
