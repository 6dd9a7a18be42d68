package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/techstore/pkg/logging"
)

// Limiter is a fixed-window request counter per client IP stored in redis.
type Limiter struct {
	Client *redis.Client
	Limit  int64
	Window time.Duration
	Prefix string
}

func New(client *redis.Client, limit int64, window time.Duration) *Limiter {
	return &Limiter{Client: client, Limit: limit, Window: window, Prefix: "ratelimit:"}
}

// Allow increments the counter for key and reports the remaining budget.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, int64, time.Duration, error) {
	k := l.Prefix + key

	n, err := l.Client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, 0, err
	}
	if n == 1 {
		if err := l.Client.Expire(ctx, k, l.Window).Err(); err != nil {
			return false, 0, 0, err
		}
	}

	ttl, err := l.Client.TTL(ctx, k).Result()
	if err != nil {
		return false, 0, 0, err
	}
	if ttl < 0 {
		// the key lost its expiry; reset the window
		if err := l.Client.Expire(ctx, k, l.Window).Err(); err != nil {
			return false, 0, 0, err
		}
		ttl = l.Window
	}

	remaining := l.Limit - n
	if remaining < 0 {
		remaining = 0
	}
	return n <= l.Limit, remaining, ttl, nil
}

// Middleware fails open: when redis is unavailable the request goes through.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			log := logging.FromContext(ctx).With("middleware", "ratelimit")

			allowed, remaining, ttl, err := l.Allow(ctx, c.RealIP())
			if err != nil {
				log.Error("ratelimit_error", "reason", "redis unavailable", "error", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(l.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				h.Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				log.Warn("ratelimit_exceeded", "status", 429, "ip", c.RealIP())
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests from this IP, please try again later")
			}
			return next(c)
		}
	}
}
