package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterStore hands out one token-bucket limiter per client IP and
// evicts idle entries to bound memory.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rps      rate.Limit
	burst    int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	s := &limiterStore{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go s.evictLoop()
	return s
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	cl, ok := s.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.limiters[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (s *limiterStore) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)
		s.mu.Lock()
		for ip, cl := range s.limiters {
			if cl.lastSeen.Before(cutoff) {
				delete(s.limiters, ip)
			}
		}
		s.mu.Unlock()
	}
}

// RateLimit rejects requests above rps (with the given burst) per
// client IP with 429 Too Many Requests.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	store := newLimiterStore(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			// Prefer X-Real-Ip set by chi's RealIP middleware.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}
			if !store.get(ip).Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
