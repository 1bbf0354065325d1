package security

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles scan attempts per client using a fixed one-minute
// Redis counter window. It protects the verify endpoint from runaway
// camera loops and replay floods; it is not an authorization mechanism.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: time.Minute,
	}
}

// Allow reports whether the client may perform another scan in the current
// window. Redis errors fail open: scanning must keep working at the gate
// even when Redis is down.
func (r *RateLimiter) Allow(ctx context.Context, clientID string) (bool, error) {
	key := fmt.Sprintf("throttle:scan:%s", clientID)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}

	if count == 1 {
		r.redis.Expire(ctx, key, r.window)
	}

	return count <= int64(r.limit), nil
}

// ScanThrottle is the middleware form of Allow for the verify route.
func (r *RateLimiter) ScanThrottle() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if r.redis == nil || r.limit <= 0 {
			return e.Next()
		}

		allowed, err := r.Allow(e.Request.Context(), e.RealIP())
		if err != nil {
			slog.Warn("scan throttle check failed", "error", err)
			return e.Next()
		}
		if !allowed {
			return apis.NewApiError(http.StatusTooManyRequests,
				"Too many scan attempts. Please slow down.", nil)
		}

		return e.Next()
	}
}
