package docsearch

import "strings"

// Match returns every entry of shard whose key contains query, in the
// shard's stored order. Both sides are expected to be normalized.
// An empty query matches nothing.
func Match(shard *Shard, query string) []Entry {
	if shard == nil || query == "" {
		return nil
	}
	var results []Entry
	for _, k := range shard.Keys {
		if strings.Contains(k.Key, query) {
			results = append(results, k.Entries...)
		}
	}
	return results
}

// MatchAll matches query against each shard in turn and concatenates
// the results in shard order. Nil shards contribute nothing.
func MatchAll(shards []*Shard, query string) []Entry {
	var results []Entry
	for _, s := range shards {
		results = append(results, Match(s, query)...)
	}
	return results
}
