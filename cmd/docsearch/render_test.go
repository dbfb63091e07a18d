package main_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docsearch"
	main "github.com/fwojciec/docsearch/cmd/docsearch"
	"github.com/stretchr/testify/assert"
)

func TestTextRenderer_Render(t *testing.T) {
	t.Parallel()

	entries := []docsearch.Entry{
		{Key: "sendcoinsreturn", Label: "SendCoinsReturn", URL: "../struct_send_coins_return.html#a1", Scope: "WalletModel"},
	}

	t.Run("prints URLs as stored without a base", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		main.NewTextRenderer(&buf, "").Render(entries, "sendcoins")

		assert.Equal(t, "SendCoinsReturn [WalletModel]  ../struct_send_coins_return.html#a1\n", buf.String())
	})

	t.Run("resolves URLs against a web search directory", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		main.NewTextRenderer(&buf, "https://doxygen.bitcoincore.org/search/").Render(entries, "sendcoins")

		assert.Contains(t, buf.String(), "https://doxygen.bitcoincore.org/struct_send_coins_return.html#a1")
	})

	t.Run("resolves URLs against a local search directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join("docs", "html", "search")
		var buf bytes.Buffer
		main.NewTextRenderer(&buf, dir).Render(entries, "sendcoins")

		want := filepath.Join("docs", "html", "struct_send_coins_return.html") + "#a1"
		assert.Contains(t, buf.String(), want)
	})

	t.Run("reports empty results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		main.NewTextRenderer(&buf, "").Render(nil, " xyz ")

		assert.Equal(t, "No results for \"xyz\"\n", buf.String())
	})
}
