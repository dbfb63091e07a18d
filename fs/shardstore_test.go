package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/doxygen"
	"github.com/fwojciec/docsearch/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic Shard Export
// The store writes a complete search directory or nothing at all

func newShard(id string, keys ...string) *docsearch.Shard {
	shard := &docsearch.Shard{ID: id}
	for _, k := range keys {
		shard.Keys = append(shard.Keys, docsearch.KeyEntries{
			Key:     k,
			Entries: []docsearch.Entry{{Key: k, Label: k, URL: k + ".html"}},
		})
	}
	return shard
}

func TestShardStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store, err := fs.NewShardStore(base, "search", "all", []string{"s", "w"})
	require.NoError(t, err)

	// When I save a shard
	err = store.Save(context.Background(), newShard("w", "widget"))

	// Then the file exists in the temp directory
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "search.tmp", "all_1.js"))
	require.NoError(t, err, "file should exist in temp directory")

	// And the final directory does not exist yet
	_, err = os.Stat(filepath.Join(base, "search"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestShardStore_CommitProducesReadableSearchDirectory(t *testing.T) {
	t.Parallel()

	for _, compressed := range []bool{false, true} {
		name := "plain"
		var opts []fs.StoreOption
		if compressed {
			name = "compressed"
			opts = append(opts, fs.WithCompression())
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			// Given a store with saved shards
			base := t.TempDir()
			store, err := fs.NewShardStore(base, "search", "all", []string{"s", "w"}, opts...)
			require.NoError(t, err)
			require.NoError(t, store.Save(context.Background(), newShard("s", "secp256k1fet", "splashscreen")))
			require.NoError(t, store.Save(context.Background(), newShard("w", "widget")))

			// When I commit
			require.NoError(t, store.Commit())

			// Then the directory reads back as a Doxygen search directory
			source := doxygen.NewSource(fs.NewFetcher(filepath.Join(base, "search")), "all")
			ids, err := source.ShardIDs(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"s", "w"}, ids)

			shard, err := source.Shard(context.Background(), "s")
			require.NoError(t, err)
			assert.Equal(t, newShard("s", "secp256k1fet", "splashscreen").Keys, shard.Keys)

			// And the temp directory is gone
			_, err = os.Stat(filepath.Join(base, "search.tmp"))
			assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
		})
	}
}

func TestShardStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store with a saved shard
	base := t.TempDir()
	store, err := fs.NewShardStore(base, "search", "all", []string{"s"})
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), newShard("s", "splashscreen")))

	// When I abort
	err = store.Abort()

	// Then nothing is left behind
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "search.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(filepath.Join(base, "search"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestShardStore_RejectsUnknownAndInvalidShards(t *testing.T) {
	t.Parallel()

	store, err := fs.NewShardStore(t.TempDir(), "search", "all", []string{"s"})
	require.NoError(t, err)

	err = store.Save(context.Background(), newShard("w", "widget"))
	assert.Equal(t, docsearch.EINVALID, docsearch.ErrorCode(err))

	err = store.Save(context.Background(), newShard("s", "splash", "secp"))
	assert.Equal(t, docsearch.EMALFORMED, docsearch.ErrorCode(err))

	_, err = fs.NewShardStore(t.TempDir(), "search", "all", []string{"se"})
	assert.Equal(t, docsearch.EINVALID, docsearch.ErrorCode(err))
}
