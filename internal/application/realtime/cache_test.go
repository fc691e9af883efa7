package realtime_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lanchonete-api/internal/application/realtime"
)

func TestCache_FallbackHastaPrimerSnapshot(t *testing.T) {
	feed := startFeed(t, realtime.Topic{
		Name:        "orders",
		Collections: []string{"orders"},
		Load: func(context.Context) (any, error) {
			return []string{"snap"}, nil
		},
	})

	var fallbackCalls atomic.Int64
	cache := realtime.NewCache(func(context.Context) ([]string, error) {
		fallbackCalls.Add(1)
		return []string{"repo"}, nil
	})

	v, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"repo"}, v)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, cache.Follow(ctx, feed, "orders"))
	require.Eventually(t, cache.Primed, time.Second, 5*time.Millisecond)

	v, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"snap"}, v)
	assert.Equal(t, int64(1), fallbackCalls.Load())

	cancel()
	require.Eventually(t, func() bool { return !cache.Primed() }, time.Second, 5*time.Millisecond)
}
