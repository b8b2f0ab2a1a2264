package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/inventory-api/internal/api/metrics"
	"github.com/99minutos/inventory-api/internal/core/domain"
)

// WindowCounter counts hits for a key in the current fixed window.
type WindowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, reset time.Duration, err error)
}

// RateLimitConfig describes one fixed-window limiter.
type RateLimitConfig struct {
	Name    string // metric label and key namespace, e.g. "auth"
	Limit   int64
	Window  time.Duration
	Message string // 429 message; defaults to domain.ErrRateLimited
	Counter WindowCounter
	Logger  zerolog.Logger
}

// RateLimit caps requests per client IP with a fixed window counter. Counter
// failures let the request through.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	limited := domain.ErrRateLimited
	if cfg.Message != "" {
		limited = limited.WithMessage(cfg.Message)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.Name + ":" + c.RealIP()
			count, reset, err := cfg.Counter.Hit(c.Request().Context(), key, cfg.Window)
			if err != nil {
				cfg.Logger.Warn().Err(err).Str("limiter", cfg.Name).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			remaining := cfg.Limit - count
			if remaining < 0 {
				remaining = 0
			}
			resetSecs := strconv.FormatInt(int64((reset+time.Second-1)/time.Second), 10)

			h := c.Response().Header()
			h.Set("RateLimit-Limit", strconv.FormatInt(cfg.Limit, 10))
			h.Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("RateLimit-Reset", resetSecs)

			if count > cfg.Limit {
				h.Set(echo.HeaderRetryAfter, resetSecs)
				metrics.RateLimitedTotal.WithLabelValues(cfg.Name).Inc()
				return limited
			}
			return next(c)
		}
	}
}
