package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docsearch"
)

// Ensure LoggingRenderer implements docsearch.Renderer.
var _ docsearch.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   docsearch.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next docsearch.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the result size.
func (r *LoggingRenderer) Render(results []docsearch.Entry, query string) {
	begin := time.Now()
	r.next.Render(results, query)
	r.logger.Info("render",
		"query", query,
		"count", len(results),
		"duration", time.Since(begin),
	)
}
