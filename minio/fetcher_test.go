package minio

import (
	"context"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_key(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "docs/html/search/all_0.js", NewFetcher(nil, "b", "docs/html/search").key("all_0.js"))
	assert.Equal(t, "docs/search/all_0.js", NewFetcher(nil, "b", "docs/search/").key("all_0.js"))
	assert.Equal(t, "searchdata.js", NewFetcher(nil, "b", "").key("searchdata.js"))
}

func TestParseURL(t *testing.T) {
	t.Parallel()

	bucket, prefix, err := ParseURL("s3://docs/project/html/search/")
	require.NoError(t, err)
	assert.Equal(t, "docs", bucket)
	assert.Equal(t, "project/html/search", prefix)

	bucket, prefix, err = ParseURL("s3://docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", bucket)
	assert.Empty(t, prefix)

	for _, raw := range []string{"http://docs/search", "s3:///search", "::"} {
		_, _, err := ParseURL(raw)
		assert.Equal(t, docsearch.EINVALID, docsearch.ErrorCode(err), raw)
	}
}

// TestFetcher_Integration requires a running MinIO instance.
// Skip if not available.
func TestFetcher_Integration(t *testing.T) {
	bucket := "test-docsearch"

	client, err := NewClient("localhost:9000", "minioadmin", "minioadmin", false)
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	fetcher := NewFetcher(client, bucket, "search")

	_, err = fetcher.Fetch(ctx, "missing.js")
	assert.Equal(t, docsearch.ENOTFOUND, docsearch.ErrorCode(err))
}
