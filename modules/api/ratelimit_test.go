package api

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "localhost:6379"

func limitedApp(l *SlidingWindowLimiter) *fiber.App {
	app := fiber.New()
	app.Post("/orders", l.Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func TestSlidingWindowLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	app := limitedApp(NewSlidingWindowLimiter(client, DefaultCheckoutLimit()))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/orders", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "unavailable", resp.Header.Get("X-RateLimit-Error"))
}

func TestSlidingWindowLimiter_Redis(t *testing.T) {
	conn, err := net.DialTimeout("tcp", testRedisAddr, 2*time.Second)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	conn.Close()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	cfg := RateLimitConfig{
		Requests:  2,
		Window:    time.Minute,
		KeyPrefix: "namak:test:ratelimit:" + uuid.NewString() + ":",
	}
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, cfg.KeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = client.Close()
	})

	app := limitedApp(NewSlidingWindowLimiter(client, cfg))

	wantStatus := []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}
	for i, want := range wantStatus {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/orders", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "request %d", i+1)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
		if want == http.StatusTooManyRequests {
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
			assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
		}
	}
}
