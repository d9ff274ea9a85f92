package mirra

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the RateLimit middleware.
type RateLimitConfig struct {
	Rate    float64                      // requests per second
	Burst   int                          // max burst
	KeyFunc func(r *http.Request) string // default: remote IP
	MaxIdle time.Duration                // drop limiters idle longer than this (default: 5m)
}

// RateLimit returns middleware that applies per-key token-bucket rate
// limiting. Limiters for idle keys are pruned lazily.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = remoteIP
	}
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = 5 * time.Minute
	}

	limiters := &keyedLimiters{
		entries: make(map[string]*limiterEntry),
		rate:    rate.Limit(cfg.Rate),
		burst:   cfg.Burst,
		maxIdle: cfg.MaxIdle,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(cfg.KeyFunc(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type keyedLimiters struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rate    rate.Limit
	burst   int
	maxIdle time.Duration
	pruned  time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (k *keyedLimiters) allow(key string) bool {
	k.mu.Lock()
	now := time.Now()

	if now.Sub(k.pruned) >= time.Minute {
		for key, e := range k.entries {
			if now.Sub(e.lastSeen) > k.maxIdle {
				delete(k.entries, key)
			}
		}
		k.pruned = now
	}

	entry, ok := k.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(k.rate, k.burst)}
		k.entries[key] = entry
	}
	entry.lastSeen = now
	k.mu.Unlock()

	return entry.limiter.Allow()
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
