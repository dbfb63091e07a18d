// Package goquery locates the search data of a Doxygen documentation site
// by inspecting one of its HTML pages.
package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsearch"
	"golang.org/x/net/html"
)

// SearchData describes where a documentation page loads its search index from.
type SearchData struct {
	// Dir is the absolute URL of the search directory, with a trailing slash.
	Dir string

	// Generator is the content of the page's generator meta tag, if any.
	Generator string
}

// searchScripts are the script names Doxygen pages include from search/.
var searchScripts = map[string]bool{
	"searchdata.js": true,
	"search.js":     true,
}

// FindSearchData locates the Doxygen search directory referenced by the
// HTML page at pageURL. Returns ENOTFOUND when the page loads no search
// scripts and was not generated by Doxygen.
func FindSearchData(page, pageURL string) (*SearchData, error) {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return nil, docsearch.Errorf(docsearch.EINVALID, "invalid page URL %q", pageURL)
	}

	node, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, docsearch.Errorf(docsearch.EMALFORMED, "parse page: %v", err)
	}
	doc := goquery.NewDocumentFromNode(node)

	sd := &SearchData{
		Generator: strings.TrimSpace(doc.Find("meta[name='generator']").AttrOr("content", "")),
	}

	// Prefer the script the page actually loads
	doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		ref, err := url.Parse(strings.TrimSpace(src))
		if err != nil || !searchScripts[path.Base(ref.Path)] {
			return true
		}
		dir := *base.ResolveReference(ref)
		dir.Path = path.Dir(dir.Path) + "/"
		dir.RawQuery = ""
		dir.Fragment = ""
		sd.Dir = dir.String()
		return false
	})
	if sd.Dir != "" {
		return sd, nil
	}

	// Doxygen pages with server-side search skip the scripts but keep the layout
	if strings.HasPrefix(sd.Generator, "Doxygen") {
		sd.Dir = base.ResolveReference(&url.URL{Path: "search/"}).String()
		return sd, nil
	}

	return nil, docsearch.Errorf(docsearch.ENOTFOUND, "no search data referenced by %s", pageURL)
}
