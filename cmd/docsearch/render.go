package main

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docsearch"
)

// Ensure TextRenderer implements docsearch.Renderer.
var _ docsearch.Renderer = (*TextRenderer)(nil)

// TextRenderer prints results one per line as "label [scope]  url".
type TextRenderer struct {
	w    io.Writer
	base string
}

// NewTextRenderer creates a renderer writing to w. Entry URLs are resolved
// against base when it is non-empty.
func NewTextRenderer(w io.Writer, base string) *TextRenderer {
	return &TextRenderer{w: w, base: base}
}

// Render implements docsearch.Renderer.
func (r *TextRenderer) Render(results []docsearch.Entry, query string) {
	if len(results) == 0 {
		fmt.Fprintf(r.w, "No results for %q\n", strings.TrimSpace(query))
		return
	}
	for _, e := range results {
		label := e.Label
		if e.Scope != "" {
			label += " [" + e.Scope + "]"
		}
		fmt.Fprintf(r.w, "%s  %s\n", label, r.resolve(e.URL))
	}
}

func (r *TextRenderer) resolve(ref string) string {
	if r.base == "" {
		return ref
	}
	base, err := url.Parse(r.base)
	if err != nil {
		return ref
	}
	if base.IsAbs() {
		u, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(u).String()
	}
	file, anchor, _ := strings.Cut(ref, "#")
	p := filepath.Join(r.base, filepath.FromSlash(file))
	if anchor != "" {
		p += "#" + anchor
	}
	return p
}
