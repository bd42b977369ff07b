package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/venuekit/seating-chart/internal/config"
)

// tokenBucketScript refills and consumes one token atomically. State is
// a Redis hash of {tokens, last_refill_ms}; the bucket starts full.
var tokenBucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local interval_ms = tonumber(ARGV[3])
    local ttl_seconds = tonumber(ARGV[4])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])
    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    local elapsed = math.max(0, now_ms - last_refill)
    local refilled = math.floor(elapsed / interval_ms)
    if refilled > 0 then
        tokens = math.min(capacity, tokens + refilled)
        last_refill = last_refill + refilled * interval_ms
    end

    local allowed = 0
    local retry_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        retry_ms = math.max(0, interval_ms - (now_ms - last_refill))
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)
    return {allowed, tokens, retry_ms}
`)

// NewTokenBucket rate-limits requests per client IP and route using a
// Redis-backed token bucket. When the bucket is empty the request is
// rejected with 429 and a Retry-After header.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, c.RealIP(), c.Path())
			now := time.Now().UnixMilli()

			res, err := tokenBucketScript.Run(c.Request().Context(), rdb,
				[]string{key},
				now, cfg.Capacity, cfg.RefillInterval.Milliseconds(), int(cfg.TTL.Seconds()),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				// Limiter trouble must not take the API down.
				return next(c)
			}

			if res[0] != 1 {
				retry := time.Duration(res[2]) * time.Millisecond
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds()+1)))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
			return next(c)
		}
	}
}
