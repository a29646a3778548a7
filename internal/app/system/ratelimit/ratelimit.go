// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/metrics"
	"golang.org/x/time/rate"
)

// Limiter is a per-key token bucket. It is safe for concurrent use.
type Limiter struct {
	name  string
	every rate.Limit
	burst int
	idle  time.Duration // entries unused this long are swept

	buckets sync.Map // key -> *bucket
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// New creates a limiter allowing perMinute events per key with the given
// burst. name labels the limiter's metrics.
func New(name string, perMinute, burst int) *Limiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		name:  name,
		every: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: burst,
		idle:  10 * time.Minute,
	}
}

func (l *Limiter) bucketFor(key string, now time.Time) *bucket {
	if v, ok := l.buckets.Load(key); ok {
		b := v.(*bucket)
		b.lastSeen.Store(now.UnixNano())
		return b
	}
	b := &bucket{lim: rate.NewLimiter(l.every, l.burst)}
	b.lastSeen.Store(now.UnixNano())
	actual, _ := l.buckets.LoadOrStore(key, b)
	return actual.(*bucket)
}

// Allow reports whether an event for key may happen now.
func (l *Limiter) Allow(key string) bool {
	return l.AllowAt(key, time.Now())
}

// AllowAt is Allow with an explicit clock.
func (l *Limiter) AllowAt(key string, now time.Time) bool {
	if l.bucketFor(key, now).lim.AllowN(now, 1) {
		metrics.RateLimitAllowed.WithLabelValues(l.name).Inc()
		return true
	}
	metrics.RateLimitRejected.WithLabelValues(l.name).Inc()
	return false
}

// Reset clears the bucket for a specific key.
func (l *Limiter) Reset(key string) {
	l.buckets.Delete(key)
}

// Sweep drops buckets idle since before now-idle and returns how many
// were removed.
func (l *Limiter) Sweep(now time.Time) int {
	cutoff := now.Add(-l.idle).UnixNano()
	n := 0
	l.buckets.Range(func(k, v any) bool {
		if v.(*bucket).lastSeen.Load() < cutoff {
			l.buckets.Delete(k)
			n++
		}
		return true
	})
	return n
}

// Run sweeps idle buckets until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Sweep(now)
		}
	}
}

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
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

// LoginLimiter throttles admin sign-in attempts by IP and by username.
type LoginLimiter struct {
	ip       *Limiter
	username *Limiter
}

// NewLoginLimiter allows 10 attempts per IP per minute and 5 per username
// per minute.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		ip:       New("login_ip", 10, 10),
		username: New("login_username", 5, 5),
	}
}

// Check reports whether the attempt may proceed and, when it may not, the
// catalog key of the message to show.
func (ll *LoginLimiter) Check(r *http.Request, username string) (bool, string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "msg.rateLimited"
	}
	if key := strings.ToLower(strings.TrimSpace(username)); key != "" && !ll.username.Allow(key) {
		return false, "msg.rateLimited"
	}
	return true, ""
}

// Succeeded forgets the username's failed attempts.
func (ll *LoginLimiter) Succeeded(username string) {
	if key := strings.ToLower(strings.TrimSpace(username)); key != "" {
		ll.username.Reset(key)
	}
}

// Run sweeps both limiters until ctx is done.
func (ll *LoginLimiter) Run(ctx context.Context) {
	go ll.ip.Run(ctx)
	ll.username.Run(ctx)
}
