package docsearch

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// ShardRouter determines which shards a normalized query needs.
// Implementations must be pure: no I/O, no side effects.
type ShardRouter interface {
	ShardsFor(query string) []string
}

// Ensure routers implement ShardRouter.
var (
	_ ShardRouter = FirstCharRouter{}
	_ ShardRouter = (*Router)(nil)
)

// FirstCharRouter routes a query to the shard named by its first character.
type FirstCharRouter struct{}

// ShardsFor returns the first rune of query as the only shard identifier,
// or nil for an empty query.
func (FirstCharRouter) ShardsFor(query string) []string {
	if query == "" {
		return nil
	}
	_, size := utf8.DecodeRuneInString(query)
	return []string{query[:size]}
}

// Router routes queries against a known set of shard identifiers,
// which may be multi-character buckets.
type Router struct {
	ids []string
}

// NewRouter returns a Router over the given shard identifiers.
// Empty identifiers are ignored.
func NewRouter(ids []string) *Router {
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			sorted = append(sorted, id)
		}
	}
	sort.Strings(sorted)
	return &Router{ids: sorted}
}

// ShardsFor returns every known identifier that is a prefix of query,
// in ascending order. Identifiers made only of separators (such as "_")
// hold symbols whose normalized key may start with any character, so they
// are returned for every non-empty query.
func (r *Router) ShardsFor(query string) []string {
	if query == "" {
		return nil
	}
	var ids []string
	for _, id := range r.ids {
		if strings.HasPrefix(query, id) || Normalize(id) == "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// IDs returns the identifiers known to the router.
func (r *Router) IDs() []string {
	return append([]string(nil), r.ids...)
}
