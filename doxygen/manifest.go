package doxygen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/docsearch"
)

// Manifest file names, newest layout first. Doxygen before 1.8.15 kept
// the index tables inside search.js.
var manifestFiles = []string{"searchdata.js", "search.js"}

// Manifest describes the index sections of a Doxygen search directory.
type Manifest struct {
	Sections []*Section
}

// Section is one index of the search data (e.g. "all", "classes").
// Each character with content has its own shard file.
type Section struct {
	Index int
	Name  string
	Label string
	chars []string
	files map[string]string
}

// IDs returns the section's shard identifiers in manifest order.
func (s *Section) IDs() []string {
	return append([]string(nil), s.chars...)
}

// FileName returns the shard file holding symbols that start with id.
func (s *Section) FileName(id string) (string, bool) {
	name, ok := s.files[id]
	return name, ok
}

// Section returns the section with the given name.
func (m *Manifest) Section(name string) (*Section, bool) {
	for _, s := range m.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// ParseManifest decodes the indexSectionsWithContent, indexSectionNames and
// (optional) indexSectionLabels tables of a Doxygen search script.
//
// Two content layouts exist. Current Doxygen lists the characters that have
// content, and the shard for the character at position i is named
// <section>_<hex i>.js. Older releases write a 0/1 flag per character code,
// and the shard for character c is named <section>_<hex code of c>.js.
func ParseManifest(data []byte) (*Manifest, error) {
	src := string(data)

	contents, err := parseTable(src, "indexSectionsWithContent")
	if err != nil {
		return nil, docsearch.Errorf(docsearch.EMALFORMED, "search manifest: %v", err)
	}
	names, err := parseTable(src, "indexSectionNames")
	if err != nil {
		return nil, docsearch.Errorf(docsearch.EMALFORMED, "search manifest: %v", err)
	}
	labels, _ := parseTable(src, "indexSectionLabels")

	var m Manifest
	for idx, content := range contents {
		name, ok := names[idx]
		if !ok {
			return nil, docsearch.Errorf(docsearch.EMALFORMED, "search manifest: section %d has no name", idx)
		}
		s := &Section{
			Index: idx,
			Name:  name,
			Label: labels[idx],
			files: make(map[string]string),
		}
		if isFlagTable(content) {
			for code, flag := range content {
				if flag == '1' {
					id := string(rune(code))
					s.chars = append(s.chars, id)
					s.files[id] = fmt.Sprintf("%s_%02x.js", name, code)
				}
			}
		} else {
			for i, r := range []rune(content) {
				id := string(r)
				if _, dup := s.files[id]; dup {
					continue
				}
				s.chars = append(s.chars, id)
				s.files[id] = name + "_" + strconv.FormatInt(int64(i), 16) + ".js"
			}
		}
		m.Sections = append(m.Sections, s)
	}
	sort.Slice(m.Sections, func(i, j int) bool { return m.Sections[i].Index < m.Sections[j].Index })
	return &m, nil
}

// parseTable reads a { <int>: "<string>", ... } assignment.
func parseTable(src, name string) (map[int]string, error) {
	v, err := parseAssignment(src, name)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s is not an object", name)
	}
	table := make(map[int]string, len(obj))
	for k, v := range obj {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%s: key %q is not a number", name, k)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: value for %d is not a string", name, idx)
		}
		table[idx] = s
	}
	return table, nil
}

// isFlagTable reports whether content is a per-character-code 0/1 table.
func isFlagTable(content string) bool {
	return len(content) >= 128 && strings.Trim(content, "01") == ""
}
