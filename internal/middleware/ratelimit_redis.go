package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiterConfig configures a fixed-window limiter shared by every
// server instance through Redis.
type RedisRateLimiterConfig struct {
	// Limit is the number of requests allowed per key per window.
	Limit int64
	// Window is the length of one counting window.
	Window time.Duration
	// Prefix namespaces the Redis keys.
	Prefix  string
	KeyFunc func(r *http.Request) string
	OnError ErrorFunc
}

// DefaultRedisRateLimiterConfig mirrors StrictRateLimiterConfig: a handful
// of attempts per minute per client.
func DefaultRedisRateLimiterConfig() RedisRateLimiterConfig {
	return RedisRateLimiterConfig{
		Limit:   20,
		Window:  time.Minute,
		Prefix:  "forever:ratelimit:auth",
		KeyFunc: GetClientIP,
	}
}

// RedisRateLimiter counts requests with INCR and lets the key expire at the
// end of its window. When Redis is unreachable requests are allowed.
type RedisRateLimiter struct {
	client redis.Cmdable
	config RedisRateLimiterConfig
	now    func() time.Time
	// incr is swapped in tests.
	incr func(ctx context.Context, key string) (int64, error)
}

// NewRedisRateLimiter creates a limiter backed by client.
func NewRedisRateLimiter(client redis.Cmdable, config RedisRateLimiterConfig) *RedisRateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = GetClientIP
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.Limit <= 0 {
		config.Limit = 20
	}
	config.OnError = orDefault(config.OnError)

	rl := &RedisRateLimiter{
		client: client,
		config: config,
		now:    time.Now,
	}
	rl.incr = rl.redisIncr
	return rl
}

// key returns the counter key for client in the current window.
func (rl *RedisRateLimiter) key(client string) string {
	window := rl.now().UnixNano() / int64(rl.config.Window)
	return fmt.Sprintf("%s:%s:%d", rl.config.Prefix, client, window)
}

func (rl *RedisRateLimiter) redisIncr(ctx context.Context, key string) (int64, error) {
	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.config.Window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Allow records one hit for key and reports whether it is within the limit.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := rl.incr(ctx, rl.key(key))
	if err != nil {
		return true, err
	}
	return n <= rl.config.Limit, nil
}

// Middleware returns an HTTP middleware that applies the shared limit.
func (rl *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := rl.Allow(r.Context(), rl.config.KeyFunc(r))
		if err != nil {
			GetLogger(r.Context()).Warn("rate limiter unavailable, allowing request", "error", err)
		}
		if !ok {
			retry := rl.config.Window - time.Duration(rl.now().UnixNano()%int64(rl.config.Window))
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			rl.config.OnError(w, r, ErrTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
