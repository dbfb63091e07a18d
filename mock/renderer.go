package mock

import (
	"sync"

	"github.com/fwojciec/docsearch"
)

var _ docsearch.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of docsearch.Renderer.
type Renderer struct {
	RenderFn func(results []docsearch.Entry, query string)
}

func (r *Renderer) Render(results []docsearch.Entry, query string) {
	r.RenderFn(results, query)
}

// Render is one recorded call to a Recorder.
type Render struct {
	Results []docsearch.Entry
	Query   string
}

var _ docsearch.Renderer = (*Recorder)(nil)

// Recorder is a docsearch.Renderer that records every call.
// It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	renders []Render
}

func (r *Recorder) Render(results []docsearch.Entry, query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, Render{Results: results, Query: query})
}

// Renders returns a copy of the recorded calls.
func (r *Recorder) Renders() []Render {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Render(nil), r.renders...)
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.renders)
}

var _ docsearch.ShardRouter = (*Router)(nil)

// Router is a mock implementation of docsearch.ShardRouter.
type Router struct {
	ShardsForFn func(query string) []string
}

func (r *Router) ShardsFor(query string) []string {
	return r.ShardsForFn(query)
}
