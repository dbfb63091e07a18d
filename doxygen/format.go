package doxygen

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/docsearch"
)

// EncodeKey escapes key the way Doxygen does: every byte that is not a
// lowercase ASCII letter or digit is written as '_' and two hex digits.
func EncodeKey(key string) string {
	var sb strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "_%02x", c)
	}
	return sb.String()
}

// FormatShard encodes shard in the layout ParseShard reads. Items are
// written in ascending order of their escaped keys, which can differ from
// the order of the normalized keys. Consecutive entries of a key that share
// a label are written as one item.
func FormatShard(shard *docsearch.Shard) []byte {
	keys := append([]docsearch.KeyEntries(nil), shard.Keys...)
	sort.SliceStable(keys, func(i, j int) bool { return EncodeKey(keys[i].Key) < EncodeKey(keys[j].Key) })

	var buf bytes.Buffer
	buf.WriteString("var " + shardVar + "=\n[\n")
	first := true
	for _, ke := range keys {
		for i := 0; i < len(ke.Entries); {
			j := i + 1
			for j < len(ke.Entries) && ke.Entries[j].Label == ke.Entries[i].Label {
				j++
			}
			if !first {
				buf.WriteString(",\n")
			}
			first = false
			writeItem(&buf, ke.Key, ke.Entries[i:j])
			i = j
		}
	}
	buf.WriteString("\n];\n")
	return buf.Bytes()
}

func writeItem(buf *bytes.Buffer, key string, entries []docsearch.Entry) {
	buf.WriteString("  [")
	buf.WriteString(jsQuote(EncodeKey(key), '\''))
	buf.WriteString(",[")
	buf.WriteString(jsQuote(html.EscapeString(entries[0].Label), '\''))
	for _, e := range entries {
		buf.WriteString(",[")
		buf.WriteString(jsQuote(e.URL, '\''))
		buf.WriteString(",1,")
		buf.WriteString(jsQuote(html.EscapeString(e.Scope), '\''))
		buf.WriteString("]")
	}
	buf.WriteString("]]")
}

// NewSection builds a section whose shard files are named by the position
// of each character in ids. Every id must be a single character.
func NewSection(index int, name, label string, ids []string) (*Section, error) {
	s := &Section{
		Index: index,
		Name:  name,
		Label: label,
		files: make(map[string]string, len(ids)),
	}
	for i, id := range ids {
		if utf8.RuneCountInString(id) != 1 {
			return nil, docsearch.Errorf(docsearch.EINVALID, "shard id %q is not a single character", id)
		}
		if _, dup := s.files[id]; dup {
			return nil, docsearch.Errorf(docsearch.EINVALID, "duplicate shard id %q", id)
		}
		s.chars = append(s.chars, id)
		s.files[id] = name + "_" + strconv.FormatInt(int64(i), 16) + ".js"
	}
	return s, nil
}

// Format encodes the manifest in the layout of searchdata.js. Sections are
// always written in the position layout.
func (m *Manifest) Format() []byte {
	var buf bytes.Buffer
	writeTable(&buf, "indexSectionsWithContent", m.Sections, func(s *Section) string {
		return strings.Join(s.chars, "")
	})
	buf.WriteString("\n")
	writeTable(&buf, "indexSectionNames", m.Sections, func(s *Section) string { return s.Name })
	buf.WriteString("\n")
	writeTable(&buf, "indexSectionLabels", m.Sections, func(s *Section) string { return s.Label })
	return buf.Bytes()
}

func writeTable(buf *bytes.Buffer, name string, sections []*Section, value func(*Section) string) {
	buf.WriteString("var " + name + " =\n{\n")
	for i, s := range sections {
		fmt.Fprintf(buf, "  %d: %s", s.Index, jsQuote(value(s), '"'))
		if i < len(sections)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("};\n")
}

// jsQuote returns s as a JavaScript string literal delimited by quote.
func jsQuote(s string, quote byte) string {
	var sb strings.Builder
	sb.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == rune(quote) || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r < 0x20 || r == 0x2028 || r == 0x2029:
			fmt.Fprintf(&sb, "\\u%04x", r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}
