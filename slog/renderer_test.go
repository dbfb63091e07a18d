package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/mock"
	dsslog "github.com/fwojciec/docsearch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("delegates and logs result count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		recorder := &mock.Recorder{}

		renderer := dsslog.NewLoggingRenderer(recorder, logger)
		renderer.Render(newShard().Keys[0].Entries, "sendcoins")

		renders := recorder.Renders()
		require.Len(t, renders, 1)
		assert.Equal(t, "sendcoins", renders[0].Query)
		assert.Len(t, renders[0].Results, 2)
		output := buf.String()
		assert.Contains(t, output, "render")
		assert.Contains(t, output, "query=sendcoins")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs empty results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		renderer := dsslog.NewLoggingRenderer(docsearch.RenderFunc(func([]docsearch.Entry, string) {}), logger)
		renderer.Render([]docsearch.Entry{}, "xyz")

		assert.Contains(t, buf.String(), "count=0")
	})
}
