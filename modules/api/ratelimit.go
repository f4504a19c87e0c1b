package api

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig holds the settings of one sliding-window limit.
type RateLimitConfig struct {
	Requests  int
	Window    time.Duration
	KeyPrefix string
}

// DefaultCheckoutLimit is applied to order placement.
func DefaultCheckoutLimit() RateLimitConfig {
	return RateLimitConfig{Requests: 20, Window: time.Minute, KeyPrefix: "namak:ratelimit:checkout:"}
}

// DefaultWebhookLimit is applied to identity webhook deliveries.
func DefaultWebhookLimit() RateLimitConfig {
	return RateLimitConfig{Requests: 120, Window: time.Minute, KeyPrefix: "namak:ratelimit:webhook:"}
}

// RateLimitResult is the outcome of one Allow call.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// slidingWindowScript trims the window, counts it and records the request
// when there is room, all in one round trip.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local counter_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_size_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)

	if count < limit then
		local counter = redis.call('INCR', counter_key)
		redis.call('ZADD', key, now, now .. ':' .. counter)
		redis.call('PEXPIRE', key, window_size_ms)
		redis.call('PEXPIRE', counter_key, window_size_ms)
		return {1, limit - count - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local retry_after = 0
	if #oldest >= 2 then
		retry_after = oldest[2] + window_size_ms - now
	end
	return {0, 0, retry_after}
`)

// SlidingWindowLimiter counts requests per key in a Redis sorted set.
type SlidingWindowLimiter struct {
	client redis.UniversalClient
	config RateLimitConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewSlidingWindowLimiter creates a limiter on the shared Redis client.
func NewSlidingWindowLimiter(client redis.UniversalClient, config RateLimitConfig) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		config: config,
		logger: slog.Default(),
		now:    time.Now,
	}
}

// Allow records a request for key if the window has room.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*RateLimitResult, error) {
	now := l.now()
	redisKey := l.config.KeyPrefix + key

	result, err := slidingWindowScript.Run(ctx, l.client, []string{redisKey, redisKey + ":counter"},
		now.UnixMilli(),
		now.Add(-l.config.Window).UnixMilli(),
		l.config.Requests,
		l.config.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(result) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result length: %d", len(result))
	}

	res := &RateLimitResult{
		Allowed:   result[0] == 1,
		Remaining: int(result[1]),
		ResetAt:   now.Add(l.config.Window),
	}
	if !res.Allowed && result[2] > 0 {
		res.RetryAfter = time.Duration(result[2]) * time.Millisecond
	}
	return res, nil
}

// Handler limits requests by client IP. Redis errors fail open.
func (l *SlidingWindowLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := l.Allow(c.UserContext(), c.IP())
		if err != nil {
			l.logger.Warn("Rate limiter unavailable, allowing request",
				"path", c.Path(),
				"error", err)
			c.Set("X-RateLimit-Error", "unavailable")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(l.config.Requests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			l.logger.Info("Rate limit exceeded", "path", c.Path(), "ip", c.IP())
			return sendRateLimitExceeded(c, result)
		}
		return c.Next()
	}
}

// sendRateLimitExceeded sends a 429 Too Many Requests response.
func sendRateLimitExceeded(c *fiber.Ctx, result *RateLimitResult) error {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
	return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
		Error:   "rate_limited",
		Message: fmt.Sprintf("Too many requests. Please retry after %d seconds.", retryAfter),
	})
}
