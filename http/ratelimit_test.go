package http_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	dshttp "github.com/fwojciec/docsearch/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows immediate request when under limit", func(t *testing.T) {
		t.Parallel()

		limiter := dshttp.NewHostLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "doxygen.example.org")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("rate limits requests to same host", func(t *testing.T) {
		t.Parallel()

		limiter := dshttp.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "doxygen.example.org"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "doxygen.example.org")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("different hosts have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := dshttp.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "doxygen.example.org"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "docs.example.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := dshttp.NewHostLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "doxygen.example.org"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "doxygen.example.org"))
	})

	t.Run("concurrent waiters all complete", func(t *testing.T) {
		t.Parallel()

		limiter := dshttp.NewHostLimiter(100)

		var wg sync.WaitGroup
		var completed atomic.Int32
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Wait(context.Background(), "doxygen.example.org") == nil {
					completed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), completed.Load())
	})
}
