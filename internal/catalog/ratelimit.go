// Package catalog provides the shared plumbing for talking to the comic
// catalog: the per-endpoint rate limiter, the fetch capability and helpers
// for cleaning catalog text fields.
package catalog

import (
	"context"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/helixir/comic-metadata-service/internal/domain"
	"github.com/helixir/comic-metadata-service/internal/syncutil"
)

const (
	// DefaultCapacity is the number of requests one endpoint may make per window.
	DefaultCapacity = 200

	// DefaultWindow is the rolling quota window.
	DefaultWindow = time.Hour

	// DefaultPacingInterval is the minimum spacing between any two requests.
	DefaultPacingInterval = time.Second
)

// LimiterMetrics receives rate limiter observations.
type LimiterMetrics interface {
	RecordRateLimitRejected(endpoint string)
	RecordPacingWait(endpoint string, waitSeconds float64)
	RecordQuotaRemaining(endpoint string, remaining int)
}

type noopLimiterMetrics struct{}

func (noopLimiterMetrics) RecordRateLimitRejected(string)   {}
func (noopLimiterMetrics) RecordPacingWait(string, float64) {}
func (noopLimiterMetrics) RecordQuotaRemaining(string, int) {}

// RateLimiter enforces a rolling per-endpoint quota and a global minimum
// spacing between requests. It is safe for concurrent use.
//
// Each endpoint window has its own lock, so quota checks for different
// endpoints never contend. Pacing is global: a token bucket with burst 1
// hands out one slot per pacing interval across all endpoints.
type RateLimiter struct {
	clock    clockwork.Clock
	capacity int
	window   time.Duration
	interval time.Duration
	metrics  LimiterMetrics

	pacer *rate.Limiter

	mu      syncutil.RWMutex
	windows map[string]*rateWindow
}

// rateWindow holds the grant times of one endpoint in ascending order.
// pending counts acquisitions that passed the quota check and are still
// waiting for a pacing slot.
type rateWindow struct {
	mu         syncutil.Mutex
	timestamps []time.Time
	pending    int
}

// Option configures a RateLimiter.
type Option func(*RateLimiter)

// WithClock sets the clock used for windows and pacing.
func WithClock(clock clockwork.Clock) Option {
	return func(r *RateLimiter) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithCapacity sets the per-endpoint request quota.
func WithCapacity(capacity int) Option {
	return func(r *RateLimiter) {
		if capacity > 0 {
			r.capacity = capacity
		}
	}
}

// WithWindow sets the rolling quota window.
func WithWindow(window time.Duration) Option {
	return func(r *RateLimiter) {
		if window > 0 {
			r.window = window
		}
	}
}

// WithPacingInterval sets the global minimum spacing between requests.
// Zero disables pacing.
func WithPacingInterval(interval time.Duration) Option {
	return func(r *RateLimiter) {
		if interval >= 0 {
			r.interval = interval
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m LimiterMetrics) Option {
	return func(r *RateLimiter) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewRateLimiter creates a rate limiter. Without options it allows 200
// requests per endpoint per hour, spaced at least one second apart.
func NewRateLimiter(opts ...Option) *RateLimiter {
	r := &RateLimiter{
		clock:    clockwork.NewRealClock(),
		capacity: DefaultCapacity,
		window:   DefaultWindow,
		interval: DefaultPacingInterval,
		metrics:  noopLimiterMetrics{},
		windows:  make(map[string]*rateWindow),
	}
	for _, opt := range opts {
		opt(r)
	}

	limit := rate.Inf
	if r.interval > 0 {
		limit = rate.Every(r.interval)
	}
	r.pacer = rate.NewLimiter(limit, 1)
	return r
}

// Capacity returns the per-endpoint quota.
func (r *RateLimiter) Capacity() int { return r.capacity }

// PacingInterval returns the global minimum spacing between requests.
func (r *RateLimiter) PacingInterval() time.Duration { return r.interval }

// Acquire admits one request to the endpoint identified by tag. It fails
// immediately with a *domain.RateLimitError when the endpoint's quota is
// exhausted, and otherwise waits for the next global pacing slot. The wait
// is abandoned, and the slot returned, when ctx is done.
func (r *RateLimiter) Acquire(ctx context.Context, tag string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w := r.windowFor(tag)

	w.mu.Lock()
	now := r.clock.Now()
	w.evict(now, r.window)
	if len(w.timestamps)+w.pending >= r.capacity {
		retryAfter := r.window
		if len(w.timestamps) > 0 {
			retryAfter = w.timestamps[0].Add(r.window).Sub(now)
		}
		w.mu.Unlock()
		r.metrics.RecordRateLimitRejected(tag)
		return domain.NewRateLimitError(tag, retryAfter)
	}
	w.pending++
	w.mu.Unlock()

	granted, waited, err := r.pace(ctx)

	w.mu.Lock()
	w.pending--
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.insert(granted)
	remaining := max(0, r.capacity-len(w.timestamps)-w.pending)
	w.mu.Unlock()

	r.metrics.RecordPacingWait(tag, waited.Seconds())
	r.metrics.RecordQuotaRemaining(tag, remaining)
	return nil
}

// pace reserves the next global pacing slot and waits for it. It returns the
// slot time and how long the caller waited.
func (r *RateLimiter) pace(ctx context.Context) (time.Time, time.Duration, error) {
	now := r.clock.Now()
	res := r.pacer.ReserveN(now, 1)
	delay := res.DelayFrom(now)
	if delay <= 0 {
		return now, 0, nil
	}

	timer := r.clock.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.Chan():
		return now.Add(delay), delay, nil
	case <-ctx.Done():
		res.CancelAt(r.clock.Now())
		return time.Time{}, 0, ctx.Err()
	}
}

// Status returns a snapshot of every endpoint seen so far, sorted by tag.
func (r *RateLimiter) Status() []domain.EndpointStatus {
	r.mu.RLock()
	tags := make([]string, 0, len(r.windows))
	windows := make(map[string]*rateWindow, len(r.windows))
	for tag, w := range r.windows {
		tags = append(tags, tag)
		windows[tag] = w
	}
	r.mu.RUnlock()
	sort.Strings(tags)

	statuses := make([]domain.EndpointStatus, 0, len(tags))
	for _, tag := range tags {
		w := windows[tag]

		w.mu.Lock()
		now := r.clock.Now()
		w.evict(now, r.window)
		used := len(w.timestamps)
		var resetAt *time.Time
		if used > 0 {
			t := w.timestamps[0].Add(r.window)
			resetAt = &t
		}
		w.mu.Unlock()

		statuses = append(statuses, domain.EndpointStatus{
			Endpoint:  tag,
			Used:      used,
			Remaining: max(0, r.capacity-used),
			Limit:     r.capacity,
			ResetAt:   resetAt,
		})
	}
	return statuses
}

func (r *RateLimiter) windowFor(tag string) *rateWindow {
	r.mu.RLock()
	w, ok := r.windows[tag]
	r.mu.RUnlock()
	if ok {
		return w
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok = r.windows[tag]; !ok {
		w = &rateWindow{}
		r.windows[tag] = w
	}
	return w
}

// evict drops timestamps that are at least one window old.
func (w *rateWindow) evict(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for i < len(w.timestamps) && !w.timestamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.timestamps = append(w.timestamps[:0], w.timestamps[i:]...)
	}
}

// insert adds t keeping timestamps ascending. Waiters can wake out of slot
// order, so t is not always the latest.
func (w *rateWindow) insert(t time.Time) {
	i := len(w.timestamps)
	for i > 0 && w.timestamps[i-1].After(t) {
		i--
	}
	w.timestamps = append(w.timestamps, time.Time{})
	copy(w.timestamps[i+1:], w.timestamps[i:])
	w.timestamps[i] = t
}
