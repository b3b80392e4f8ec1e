// Package ratelimit throttles sensitive operations per client address with
// a fixed window counter kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "zombieland:ratelimit"

// The first hit of a window starts its expiry; later hits only count.
var windowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

// Connect returns a client for addr after checking the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

type Limiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
}

// New returns a limiter allowing limit hits per window for each key. A nil
// client yields a limiter that allows everything.
func New(rdb redis.Scripter, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

func (l *Limiter) enabled() bool {
	return l != nil && l.rdb != nil && l.limit > 0 && l.window > 0
}

// Allow records one hit for key and reports whether it fits in the current
// window. When it does not, retryAfter is the time left in the window.
func (l *Limiter) Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error) {
	if !l.enabled() {
		return true, 0, nil
	}

	vals, err := windowScript.Run(ctx, l.rdb, []string{keyPrefix + ":" + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return true, 0, err
	}
	if len(vals) != 2 {
		return true, 0, fmt.Errorf("unexpected rate limit script result %v", vals)
	}

	count, ttl := vals[0], time.Duration(vals[1])*time.Millisecond
	if count > int64(l.limit) {
		return false, ttl, nil
	}
	return true, 0, nil
}

// Middleware limits an operation per client address. Redis failures let the
// request through.
func (l *Limiter) Middleware(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !l.enabled() {
			next(ctx)
			return
		}

		key := ctx.Operation().OperationID + ":" + clientAddr(ctx.RemoteAddr())
		allowed, retryAfter, err := l.Allow(ctx.Context(), key)
		if err != nil {
			log.Printf("Rate limiter unavailable for %s: %v", key, err)
			next(ctx)
			return
		}

		ctx.SetHeader("X-RateLimit-Limit", strconv.Itoa(l.limit))
		if !allowed {
			secs := int(math.Ceil(retryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			ctx.SetHeader("Retry-After", strconv.Itoa(secs))
			huma.WriteErr(api, ctx, http.StatusTooManyRequests, "too many requests, retry later")
			return
		}
		next(ctx)
	}
}

func clientAddr(remote string) string {
	if host, _, err := net.SplitHostPort(remote); err == nil {
		return host
	}
	if remote == "" {
		return "unknown"
	}
	return remote
}
