package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/data-service/pkg/logger"
	"github.com/gogotex/data-service/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// fixedWindow counts hits per client in Redis buckets of a fixed length, so
// every replica shares one budget.
type fixedWindow struct {
	rdb     *redis.Client
	seconds int64
	limit   int64
	now     func() time.Time
}

// hit records one request for client and returns the bucket's count so far.
func (w *fixedWindow) hit(ctx context.Context, client string) (int64, error) {
	key := "rl:" + client + ":" + strconv.FormatInt(w.now().Unix()/w.seconds, 10)
	n, err := w.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		// a key left without a TTL would pin the client's count forever
		ttl := time.Duration(w.seconds+1) * time.Second
		if err := w.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			logger.Errorf("rate limit expire %s: %v", key, err)
		}
	}
	return n, nil
}

// RedisRateLimitMiddleware provides a coarse fixed-window Redis-backed limiter.
// Each client IP may make floor(rps*window)+burst requests per window. A nil
// client falls back to the in-process limiter.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	w := &fixedWindow{rdb: client, seconds: int64(window.Seconds()), now: time.Now}
	if w.seconds <= 0 {
		w.seconds = 1
	}
	w.limit = int64(rps*float64(w.seconds)) + int64(burst)
	retryAfter := strconv.FormatInt(w.seconds, 10)

	return func(c *gin.Context) {
		n, err := w.hit(c.Request.Context(), clientKey(c))
		if err != nil {
			logger.Errorf("rate limit check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			return
		}
		if n > w.limit {
			c.Header("Retry-After", retryAfter)
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
