package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Togather-Foundation/glee/internal/config"
	"golang.org/x/time/rate"
)

const limiterTTL = 15 * time.Minute

// RateLimiter is a per-client token bucket. Health, readiness and metrics
// endpoints are exempt.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perMinute int
	trusted   []*net.IPNet
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		limiters:  make(map[string]*limiterEntry),
		perMinute: cfg.PerMinute,
		now:       time.Now,
	}
	for _, cidr := range cfg.TrustedProxyCIDRs {
		if _, n, err := net.ParseCIDR(strings.TrimSpace(cidr)); err == nil {
			rl.trusted = append(rl.trusted, n)
		}
	}
	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.perMinute <= 0 || exempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if !rl.limiter(rl.clientKey(r)).Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Minute/time.Second)/rl.perMinute+1))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func exempt(path string) bool {
	switch path {
	case "/healthz", "/readyz", "/health", "/metrics":
		return true
	}
	return false
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if entry, ok := rl.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}
	rl.sweep(now)
	l := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.perMinute)
	rl.limiters[key] = &limiterEntry{limiter: l, lastSeen: now}
	return l
}

// sweep drops idle entries; callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(rl.limiters, key)
		}
	}
}

// clientKey trusts X-Forwarded-For only from configured proxy ranges.
func (rl *RateLimiter) clientKey(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	ip := net.ParseIP(remote)
	if ip == nil {
		return remote
	}
	for _, n := range rl.trusted {
		if !n.Contains(ip) {
			continue
		}
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			return strings.TrimSpace(first)
		}
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return strings.TrimSpace(realIP)
		}
	}
	return remote
}
