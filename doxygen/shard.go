// Package doxygen decodes the client-side search data that Doxygen writes
// to a documentation site's search/ directory: per-character shard files
// (e.g. classes_10.js) and the searchdata.js manifest that maps characters
// to those files.
package doxygen

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docsearch"
)

// shardVar is the variable Doxygen assigns the shard table to.
const shardVar = "searchData"

// ParseShard decodes a Doxygen shard file into a shard with the given
// identifier. Each element of the searchData array has the form
//
//	['escaped_5fkey',['Display Label',['url',1,'scope'],['url',1,'scope'],...]]
//
// Items must be in ascending order of their escaped keys, as Doxygen
// writes them. Keys are decoded and normalized; keys that collide after
// normalization are merged, keeping entries in file order. Symbols whose
// name is made only of separators are dropped. Returns EMALFORMED when the
// data does not follow this layout.
func ParseShard(id string, data []byte) (*docsearch.Shard, error) {
	v, err := parseAssignment(string(data), shardVar)
	if err != nil {
		return nil, docsearch.MalformedShard(id, "%v", err)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, docsearch.MalformedShard(id, "%s is not an array", shardVar)
	}

	byKey := make(map[string]int)
	var keys []docsearch.KeyEntries
	var prev string
	for i, item := range items {
		raw, key, entries, err := parseItem(item)
		if err != nil {
			return nil, docsearch.MalformedShard(id, "item %d: %v", i, err)
		}
		if i > 0 && raw < prev {
			return nil, docsearch.MalformedShard(id, "key %q does not sort after %q", raw, prev)
		}
		prev = raw
		if key == "" {
			// Symbols made only of separators cannot match a normalized query.
			continue
		}
		if idx, ok := byKey[key]; ok {
			keys[idx].Entries = append(keys[idx].Entries, entries...)
			continue
		}
		byKey[key] = len(keys)
		keys = append(keys, docsearch.KeyEntries{Key: key, Entries: entries})
	}

	// Normalizing can reorder keys that differed only in escaped separators.
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Key < keys[j].Key })

	return &docsearch.Shard{
		ID:       id,
		Keys:     keys,
		Checksum: xxhash.Sum64(data),
	}, nil
}

// parseItem returns the escaped key of item, its normalized form and
// its entries.
func parseItem(item any) (string, string, []docsearch.Entry, error) {
	pair, ok := item.([]any)
	if !ok || len(pair) != 2 {
		return "", "", nil, fmt.Errorf("expected [key, [label, targets...]]")
	}
	rawKey, ok := pair[0].(string)
	if !ok {
		return "", "", nil, fmt.Errorf("key is not a string")
	}
	key := docsearch.Normalize(DecodeKey(rawKey))

	group, ok := pair[1].([]any)
	if !ok || len(group) < 2 {
		return "", "", nil, fmt.Errorf("key %q: expected [label, targets...]", rawKey)
	}
	label, ok := group[0].(string)
	if !ok || label == "" {
		return "", "", nil, fmt.Errorf("key %q: missing label", rawKey)
	}
	label = html.UnescapeString(label)

	entries := make([]docsearch.Entry, 0, len(group)-1)
	for _, t := range group[1:] {
		target, ok := t.([]any)
		if !ok || len(target) < 1 {
			return "", "", nil, fmt.Errorf("key %q: target is not an array", rawKey)
		}
		url, ok := target[0].(string)
		if !ok || url == "" {
			return "", "", nil, fmt.Errorf("key %q: missing url", rawKey)
		}
		var scope string
		if len(target) >= 3 {
			if s, ok := target[2].(string); ok {
				scope = html.UnescapeString(s)
			}
		}
		entries = append(entries, docsearch.Entry{
			Key:   key,
			Label: label,
			URL:   url,
			Scope: scope,
		})
	}
	return rawKey, key, entries, nil
}

// DecodeKey reverses Doxygen's search key escaping, in which every byte
// that is not a lowercase letter or digit is written as '_' followed by
// two hex digits (e.g. "_5f" for '_'). Malformed escapes are kept as-is.
func DecodeKey(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}
	buf := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		if key[i] == '_' && i+2 < len(key) {
			if b, err := strconv.ParseUint(key[i+1:i+3], 16, 8); err == nil {
				buf = append(buf, byte(b))
				i += 2
				continue
			}
		}
		buf = append(buf, key[i])
	}
	return string(buf)
}
