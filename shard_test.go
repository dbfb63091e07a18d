package docsearch_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSShard returns the "s" shard used across the package tests.
func newSShard() *docsearch.Shard {
	return &docsearch.Shard{
		ID: "s",
		Keys: []docsearch.KeyEntries{
			{Key: "secp256k1fet", Entries: []docsearch.Entry{
				{Key: "secp256k1fet", Label: "secp256k1_fe_t", URL: "struct1.html"},
			}},
			{Key: "sendcoinsreturn", Entries: []docsearch.Entry{
				{Key: "sendcoinsreturn", Label: "SendCoinsReturn", URL: "struct2.html", Scope: "WalletModel"},
				{Key: "sendcoinsreturn", Label: "SendCoinsReturn", URL: "struct3.html", Scope: "OtherModel"},
			}},
			{Key: "splashscreen", Entries: []docsearch.Entry{
				{Key: "splashscreen", Label: "SplashScreen", URL: "class2.html"},
			}},
		},
	}
}

func TestShard_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts ascending keys", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, newSShard().Validate())
	})

	t.Run("accepts empty shard", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, (&docsearch.Shard{ID: "q"}).Validate())
	})

	t.Run("rejects nil shard", func(t *testing.T) {
		t.Parallel()

		var s *docsearch.Shard
		assert.Equal(t, docsearch.EMALFORMED, docsearch.ErrorCode(s.Validate()))
	})

	t.Run("rejects keys out of order", func(t *testing.T) {
		t.Parallel()

		s := &docsearch.Shard{ID: "s", Keys: []docsearch.KeyEntries{
			{Key: "splash", Entries: []docsearch.Entry{{Label: "Splash", URL: "a.html"}}},
			{Key: "secp", Entries: []docsearch.Entry{{Label: "secp", URL: "b.html"}}},
		}}

		err := s.Validate()

		assert.Equal(t, docsearch.EMALFORMED, docsearch.ErrorCode(err))
		assert.Equal(t, "s", docsearch.ErrorShard(err))
	})

	t.Run("rejects duplicate keys", func(t *testing.T) {
		t.Parallel()

		s := &docsearch.Shard{ID: "s", Keys: []docsearch.KeyEntries{
			{Key: "secp", Entries: []docsearch.Entry{{Label: "secp", URL: "a.html"}}},
			{Key: "secp", Entries: []docsearch.Entry{{Label: "secp", URL: "b.html"}}},
		}}

		assert.Equal(t, docsearch.EMALFORMED, docsearch.ErrorCode(s.Validate()))
	})

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()

		s := &docsearch.Shard{ID: "s", Keys: []docsearch.KeyEntries{
			{Key: "", Entries: []docsearch.Entry{{Label: "x", URL: "a.html"}}},
		}}

		assert.Equal(t, docsearch.EMALFORMED, docsearch.ErrorCode(s.Validate()))
	})

	t.Run("rejects entries without url", func(t *testing.T) {
		t.Parallel()

		s := &docsearch.Shard{ID: "s", Keys: []docsearch.KeyEntries{
			{Key: "secp", Entries: []docsearch.Entry{{Label: "secp"}}},
		}}

		assert.Equal(t, docsearch.EMALFORMED, docsearch.ErrorCode(s.Validate()))
	})

	t.Run("rejects key without entries", func(t *testing.T) {
		t.Parallel()

		s := &docsearch.Shard{ID: "s", Keys: []docsearch.KeyEntries{{Key: "secp"}}}

		assert.Equal(t, docsearch.EMALFORMED, docsearch.ErrorCode(s.Validate()))
	})
}

func TestShard_Lookup(t *testing.T) {
	t.Parallel()

	s := newSShard()

	assert.Len(t, s.Lookup("sendcoinsreturn"), 2)
	assert.Equal(t, "SplashScreen", s.Lookup("splashscreen")[0].Label)
	assert.Nil(t, s.Lookup("sec"))
	assert.Nil(t, s.Lookup("zzz"))
	assert.Equal(t, 4, s.Len())
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "secp256k1fet", docsearch.Normalize("secp256k1_fe_t"))
	assert.Equal(t, "secp256k1fe", docsearch.Normalize("  SECP256K1 fe "))
	assert.Equal(t, "tinyformatdetail", docsearch.Normalize("tinyformat::detail"))
	assert.Equal(t, "straße", docsearch.Normalize("STRAßE"))
	assert.Equal(t, "operator<<", docsearch.Normalize("operator<<"))
	assert.Empty(t, docsearch.Normalize(" \t_ "))
}

func TestShardState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "not_loaded", docsearch.NotLoaded.String())
	assert.Equal(t, "loading", docsearch.Loading.String())
	assert.Equal(t, "loaded", docsearch.Loaded.String())
	assert.Equal(t, "failed", docsearch.Failed.String())
}

func TestTable(t *testing.T) {
	t.Parallel()

	table := docsearch.Table{"s": newSShard(), "a": {ID: "a"}}

	ids, err := table.ShardIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "s"}, ids)

	s, err := table.Shard(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "s", s.ID)

	missing, err := table.Shard(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", missing.ID)
	assert.Empty(t, missing.Keys)
}
