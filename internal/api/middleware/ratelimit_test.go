package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

type memCounter struct {
	hits map[string]int64
	err  error
}

func (m *memCounter) Hit(_ context.Context, key string, _ time.Duration) (int64, time.Duration, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	m.hits[key]++
	return m.hits[key], 42 * time.Second, nil
}

func limitedHandler(cfg RateLimitConfig) echo.HandlerFunc {
	return RateLimit(cfg)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

func hit(h echo.HandlerFunc, ip string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = ip + ":5000"
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestRateLimit_AllowsUpToLimit(t *testing.T) {
	counter := &memCounter{hits: map[string]int64{}}
	h := limitedHandler(RateLimitConfig{Name: "auth", Limit: 2, Window: time.Minute, Counter: counter, Logger: zerolog.Nop()})

	rec, err := hit(h, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("RateLimit-Remaining"))
	assert.Equal(t, "42", rec.Header().Get("RateLimit-Reset"))

	rec, err = hit(h, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	counter := &memCounter{hits: map[string]int64{}}
	msg := "Trop de tentatives de connexion, réessayez plus tard"
	h := limitedHandler(RateLimitConfig{Name: "auth", Limit: 1, Window: time.Minute, Message: msg, Counter: counter, Logger: zerolog.Nop()})

	_, err := hit(h, "10.0.0.1")
	require.NoError(t, err)

	rec, err := hit(h, "10.0.0.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	assert.Equal(t, msg, err.Error())
	assert.Equal(t, "42", rec.Header().Get(echo.HeaderRetryAfter))
	assert.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))

	// other clients keep their own budget
	rec, err = hit(h, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	counter := &memCounter{err: errors.New("redis: connection refused")}
	h := limitedHandler(RateLimitConfig{Name: "api", Limit: 1, Window: time.Minute, Counter: counter, Logger: zerolog.Nop()})

	for i := 0; i < 3; i++ {
		rec, err := hit(h, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
