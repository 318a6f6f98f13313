package v1

import (
    "net"
    "net/http"
    "sync"
    "time"

    "golang.org/x/time/rate"
)

// RateLimitConfig throttles requests per client address across the whole
// router. A RequestsPerMinute of zero or less disables throttling.
type RateLimitConfig struct {
    RequestsPerMinute int
    // Burst is the number of requests a client may send back to back.
    // Defaults to RequestsPerMinute when unset.
    Burst int
}

// DefaultRateLimit allows 10 requests per client per minute.
func DefaultRateLimit() RateLimitConfig {
    return RateLimitConfig{RequestsPerMinute: 10}
}

// clientLimiters hands out one token bucket per client address. Buckets for
// idle clients are kept; the map is bounded by the distinct addresses seen.
type clientLimiters struct {
    mu       sync.Mutex
    limiters map[string]*rate.Limiter
    every    rate.Limit
    burst    int
}

func newClientLimiters(cfg RateLimitConfig) *clientLimiters {
    burst := cfg.Burst
    if burst <= 0 {
        burst = cfg.RequestsPerMinute
    }
    return &clientLimiters{
        limiters: make(map[string]*rate.Limiter),
        every:    rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute)),
        burst:    burst,
    }
}

func (c *clientLimiters) allow(addr string) bool {
    c.mu.Lock()
    defer c.mu.Unlock()
    lim, ok := c.limiters[addr]
    if !ok {
        lim = rate.NewLimiter(c.every, c.burst)
        c.limiters[addr] = lim
    }
    return lim.Allow()
}

// rateLimitMiddleware rejects clients that exceed the configured request
// rate with a 429. Clients are keyed by remote IP.
func rateLimitMiddleware(cfg RateLimitConfig) func(http.Handler) http.Handler {
    limiters := newClientLimiters(cfg)
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            if !limiters.allow(clientAddr(r)) {
                writeErr(w, http.StatusTooManyRequests, "rate limit exceeded", "rate_limit_exceeded")
                return
            }
            next.ServeHTTP(w, r)
        })
    }
}

func clientAddr(r *http.Request) string {
    host, _, err := net.SplitHostPort(r.RemoteAddr)
    if err != nil {
        return r.RemoteAddr
    }
    return host
}
