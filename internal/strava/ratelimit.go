package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava rate limits:
// - 100 requests per 15 minutes
// - 1000 requests per day

const shortWindow = 15 * time.Minute

// window tracks usage against one rolling rate limit
type window struct {
	limit    int
	usage    int
	resetsAt time.Time
}

func (w *window) expire(now, next time.Time) {
	if now.After(w.resetsAt) {
		w.usage = 0
		w.resetsAt = next
	}
}

func (w *window) full() bool {
	return w.usage >= w.limit
}

// RateLimiter manages Strava API rate limits
type RateLimiter struct {
	mu sync.Mutex

	short window // 15-minute window
	daily window // resets at midnight

	// Minimum interval between requests
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a new rate limiter with Strava's limits
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		short:       window{limit: 100, resetsAt: now.Add(shortWindow)},
		daily:       window{limit: 1000, resetsAt: nextMidnight(now)},
		minInterval: 150 * time.Millisecond, // ~6.6 req/s max
	}
}

func nextMidnight(now time.Time) time.Time {
	return now.Truncate(24 * time.Hour).Add(24 * time.Hour)
}

// Wait blocks until a request can be made without exceeding rate limits
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.short.expire(now, now.Add(shortWindow))
	r.daily.expire(now, nextMidnight(now))

	if r.short.full() {
		if err := r.sleep(ctx, time.Until(r.short.resetsAt)); err != nil {
			return err
		}
		r.short.usage = 0
		r.short.resetsAt = time.Now().Add(shortWindow)
	}

	if r.daily.full() {
		if err := r.sleep(ctx, time.Until(r.daily.resetsAt)); err != nil {
			return err
		}
		r.daily.usage = 0
		r.daily.resetsAt = nextMidnight(time.Now())
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = time.Now()

	return nil
}

// sleep releases the lock while waiting and reacquires it before
// returning, whether the timer fired or the context was cancelled
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders updates rate limit state from Strava response headers.
// Strava returns X-RateLimit-Limit: "100,1000" and X-RateLimit-Usage: "34,512"
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.short.usage = short
		r.daily.usage = daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.short.limit = short
		r.daily.limit = daily
	}
}

// parsePair splits a "short,daily" rate limit header value
func parsePair(v string) (short, daily int, ok bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}

	short, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	daily, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}

	return short, daily, true
}

// Status returns current rate limit status
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.limit - r.short.usage, r.daily.limit - r.daily.usage
}

// Usage returns current usage counts
func (r *RateLimiter) Usage() (shortUsage, dailyUsage int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.usage, r.daily.usage
}
