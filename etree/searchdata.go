// Package etree reads the searchdata.xml file Doxygen writes for external
// search engines and partitions it into shards.
package etree

import (
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docsearch"
)

// ParseSearchData decodes a searchdata.xml document into a table of shards
// keyed by the first character of each normalized symbol name. Each
// <doc> element needs "name" and "url" fields; "scope" is optional.
// Keys within a shard are sorted and entries under a key keep document order.
func ParseSearchData(r io.Reader) (docsearch.Table, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, docsearch.Errorf(docsearch.EMALFORMED, "parse search data: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "add" {
		return nil, docsearch.Errorf(docsearch.EMALFORMED, "search data: expected <add> root element")
	}

	buckets := make(map[string]map[string][]docsearch.Entry)
	for i, el := range root.SelectElements("doc") {
		fields := make(map[string]string)
		for _, f := range el.SelectElements("field") {
			name := f.SelectAttrValue("name", "")
			if _, ok := fields[name]; !ok {
				fields[name] = strings.TrimSpace(f.Text())
			}
		}
		label, url := fields["name"], fields["url"]
		if label == "" || url == "" {
			return nil, docsearch.Errorf(docsearch.EMALFORMED, "search data: doc %d: name and url required", i)
		}
		key := docsearch.Normalize(label)
		if key == "" {
			continue
		}

		_, size := utf8.DecodeRuneInString(key)
		id := key[:size]
		if buckets[id] == nil {
			buckets[id] = make(map[string][]docsearch.Entry)
		}
		buckets[id][key] = append(buckets[id][key], docsearch.Entry{
			Key:   key,
			Label: label,
			URL:   url,
			Scope: fields["scope"],
		})
	}

	table := make(docsearch.Table, len(buckets))
	for id, byKey := range buckets {
		table[id] = newShard(id, byKey)
	}
	return table, nil
}

func newShard(id string, byKey map[string][]docsearch.Entry) *docsearch.Shard {
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := xxhash.New()
	shard := &docsearch.Shard{ID: id, Keys: make([]docsearch.KeyEntries, 0, len(keys))}
	for _, k := range keys {
		entries := byKey[k]
		shard.Keys = append(shard.Keys, docsearch.KeyEntries{Key: k, Entries: entries})
		for _, e := range entries {
			_, _ = h.WriteString(e.Key + "\x00" + e.Label + "\x00" + e.URL + "\x00" + e.Scope + "\n")
		}
	}
	shard.Checksum = h.Sum64()
	return shard
}
