// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a set of token buckets keyed by an arbitrary string (client IP,
// phone number). It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// New allows n requests per window per key, refilling evenly.
func New(n int, window time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Every(window / time.Duration(n)),
		burst:   n,
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.lim
}

// Allow consumes one token for key and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Reset forgets key, restoring its full burst.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Sweep drops buckets idle for longer than idle and returns how many were
// removed. A background worker calls it so the map stays bounded.
func (l *Limiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := time.Now().Add(-idle)
	n := 0
	for k, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, k)
			n++
		}
	}
	return n
}

// Len reports how many keys are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Middleware rejects requests over the per-IP limit with 429 and a JSON
// detail body.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Rate limit exceeded. Please try again later."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the client IP, preferring the first X-Forwarded-For
// hop, then X-Real-IP, then RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter guards the login endpoint per client IP and per phone
// number, so neither a single source nor a spread-out attack on one
// account gets unlimited guesses.
type LoginLimiter struct {
	ip    *Limiter
	phone *Limiter
}

// NewLoginLimiter builds a limiter allowing ipLimit attempts per ipWindow
// per IP and phoneLimit attempts per phoneWindow per phone number.
func NewLoginLimiter(ipLimit int, ipWindow time.Duration, phoneLimit int, phoneWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ip:    New(ipLimit, ipWindow),
		phone: New(phoneLimit, phoneWindow),
	}
}

// Check reports whether an attempt may proceed, with a user-facing reason
// when it may not.
func (ll *LoginLimiter) Check(r *http.Request, phone string) (bool, string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if phone != "" && !ll.phone.Allow(phone) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetPhone clears the per-phone budget after a successful login.
func (ll *LoginLimiter) ResetPhone(phone string) {
	if phone != "" {
		ll.phone.Reset(phone)
	}
}

// Sweep drops idle entries from both limiters.
func (ll *LoginLimiter) Sweep(idle time.Duration) int {
	return ll.ip.Sweep(idle) + ll.phone.Sweep(idle)
}

// Registry hands out per-route limiters and sweeps them together.
// A nil Registry hands out pass-through middleware.
type Registry struct {
	mu       sync.Mutex
	limiters []*Limiter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// PerMinute returns middleware allowing n requests per minute per client
// IP. Each call creates an independent limiter.
func (g *Registry) PerMinute(n int) func(http.Handler) http.Handler {
	if g == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	l := New(n, time.Minute)
	g.mu.Lock()
	g.limiters = append(g.limiters, l)
	g.mu.Unlock()
	return l.Middleware
}

// Sweep drops idle entries from every registered limiter.
func (g *Registry) Sweep(idle time.Duration) int {
	if g == nil {
		return 0
	}
	g.mu.Lock()
	ls := append([]*Limiter(nil), g.limiters...)
	g.mu.Unlock()

	n := 0
	for _, l := range ls {
		n += l.Sweep(idle)
	}
	return n
}
