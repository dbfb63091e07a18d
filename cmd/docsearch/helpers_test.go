package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/docsearch"
	main "github.com/fwojciec/docsearch/cmd/docsearch"
	"github.com/fwojciec/docsearch/fs"
	"github.com/stretchr/testify/require"
)

func newSShard() *docsearch.Shard {
	return &docsearch.Shard{
		ID: "s",
		Keys: []docsearch.KeyEntries{
			{Key: "secp256k1fet", Entries: []docsearch.Entry{
				{Key: "secp256k1fet", Label: "secp256k1_fe_t", URL: "../structsecp256k1__fe__t.html"},
			}},
			{Key: "splashscreen", Entries: []docsearch.Entry{
				{Key: "splashscreen", Label: "SplashScreen", URL: "../class_splash_screen.html"},
			}},
		},
	}
}

func newWShard() *docsearch.Shard {
	return &docsearch.Shard{
		ID: "w",
		Keys: []docsearch.KeyEntries{
			{Key: "walletmodel", Entries: []docsearch.Entry{
				{Key: "walletmodel", Label: "WalletModel", URL: "../class_wallet_model.html"},
			}},
			{Key: "widget", Entries: []docsearch.Entry{
				{Key: "widget", Label: "Widget", URL: "../class_widget.html", Scope: "gui"},
			}},
		},
	}
}

func newTable() docsearch.Table {
	return docsearch.Table{"s": newSShard(), "w": newWShard()}
}

// tableDeps returns dependencies whose sources all resolve to table.
func tableDeps(table docsearch.Table) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Sources: main.ResolverFunc(func(ctx context.Context, source, section string) (*main.Resolved, error) {
			return &main.Resolved{Source: table}, nil
		}),
	}
	return deps, stdout, stderr
}

// writeSearchDir writes table as a Doxygen search directory under dir/search.
func writeSearchDir(t *testing.T, dir string, table docsearch.Table) {
	t.Helper()

	ids, err := table.ShardIDs(context.Background())
	require.NoError(t, err)
	store, err := fs.NewShardStore(dir, "search", "all", ids)
	require.NoError(t, err)
	for _, id := range ids {
		require.NoError(t, store.Save(context.Background(), table[id]))
	}
	require.NoError(t, store.Commit())
}
