package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter limits requests per client IP with a token bucket each.
// Idle clients are forgotten after limiterIdleTTL.
type RateLimiter struct {
	mu       sync.RWMutex
	clients  map[string]*rateLimitClient
	limit    rate.Limit
	burst    int
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows ratePerSecond requests per second per client with an
// equal burst. A non-positive rate disables limiting.
func NewRateLimiter(ratePerSecond int) *RateLimiter {
	limit := rate.Inf
	burst := 0
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = ratePerSecond
	}

	rl := &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(5 * time.Minute)

	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.limit == rate.Inf {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter(clientKey(r)).Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(1/float64(rl.limit)))))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}` + "\n"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	now := rl.now().UnixNano()

	rl.mu.RLock()
	if c, ok := rl.clients[key]; ok {
		c.lastSeen.Store(now)
		rl.mu.RUnlock()
		return c.limiter
	}
	rl.mu.RUnlock()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Another goroutine may have created it while we waited for the lock.
	if c, ok := rl.clients[key]; ok {
		c.lastSeen.Store(now)
		return c.limiter
	}

	c := &rateLimitClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
	c.lastSeen.Store(now)
	rl.clients[key] = c

	return c.limiter
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, c := range rl.clients {
		if now.Sub(time.Unix(0, c.lastSeen.Load())) > limiterIdleTTL {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stop:
			return
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
