package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/dotworkers/api/pkg/response"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{redis: redisClient}
}

// Limit creates a rate limiting middleware. Workers are keyed per route,
// not per user: the only caller is Brain, and the limits exist to contain
// runaway automation loops.
func (rl *RateLimiter) Limit(keyPrefix string, maxRequests int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.redis == nil {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s", keyPrefix)
		ctx := context.Background()

		count, err := rl.redis.Incr(ctx, key).Result()
		if err != nil {
			// If Redis fails, allow the request
			return c.Next()
		}

		// Set expiration on first request
		if count == 1 {
			rl.redis.Expire(ctx, key, window)
		}

		if count > int64(maxRequests) {
			ttl, _ := rl.redis.TTL(ctx, key).Result()
			c.Set("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			return response.RateLimited(c)
		}

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequests))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", maxRequests-int(count)))

		return c.Next()
	}
}

// UpdateLimit returns a rate limiter for the update worker (30 req/min).
func (rl *RateLimiter) UpdateLimit(maxPerMin int) fiber.Handler {
	return rl.Limit("update", maxPerMin, time.Minute)
}

// SetupLimit returns a rate limiter for the setup worker (10 req/min).
func (rl *RateLimiter) SetupLimit(maxPerMin int) fiber.Handler {
	return rl.Limit("setup", maxPerMin, time.Minute)
}

// FileLimit returns a rate limiter for the filing worker (30 req/min).
func (rl *RateLimiter) FileLimit(maxPerMin int) fiber.Handler {
	return rl.Limit("file", maxPerMin, time.Minute)
}

// WipLimit returns a rate limiter for WIP email sends (20 req/hour).
func (rl *RateLimiter) WipLimit(maxPerHour int) fiber.Handler {
	return rl.Limit("wip", maxPerHour, time.Hour)
}
