package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

func TestMemoryWindow_CountsWithinWindow(t *testing.T) {
	mw := NewMemoryWindow("test")
	base := time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC)
	mw.now = func() time.Time { return base }
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, reset, err := mw.Hit(ctx, "auth:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
		assert.Equal(t, 50*time.Second, reset)
	}

	count, _, err := mw.Hit(ctx, "auth:10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "keys are independent")
}

func TestMemoryWindow_ResetsOnNextWindow(t *testing.T) {
	mw := NewMemoryWindow("test")
	now := time.Date(2026, 1, 1, 12, 0, 59, 0, time.UTC)
	mw.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := mw.Hit(ctx, "k", time.Minute)
		require.NoError(t, err)
	}

	now = now.Add(2 * time.Second)
	count, reset, err := mw.Hit(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 59*time.Second, reset)
}

func TestMemoryWindow_SweepsClosedWindows(t *testing.T) {
	mw := NewMemoryWindow("test")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mw.now = func() time.Time { return now }
	ctx := context.Background()

	for _, ip := range []string{"a", "b", "c"} {
		_, _, err := mw.Hit(ctx, ip, time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, mw.Len())

	now = now.Add(5 * time.Minute)
	_, _, err := mw.Hit(ctx, "d", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, mw.Len())
}

func TestMemoryWindow_RejectsNonPositiveWindow(t *testing.T) {
	_, _, err := NewMemoryWindow("").Hit(context.Background(), "k", 0)
	assert.Error(t, err)
}

func TestMemoryWindow_ConcurrentHits(t *testing.T) {
	mw := NewMemoryWindow("test")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = mw.Hit(ctx, "k", time.Hour)
		}()
	}
	wg.Wait()

	count, _, err := mw.Hit(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(51), count)
}

func TestRateLimit_MemoryWindowBlocksOverLimit(t *testing.T) {
	h := limitedHandler(RateLimitConfig{Name: "auth", Limit: 2, Window: time.Minute, Counter: NewMemoryWindow("ratelimit"), Logger: zerolog.Nop()})

	for i := 0; i < 2; i++ {
		rec, err := hit(h, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	_, err := hit(h, "10.0.0.1")
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
}
