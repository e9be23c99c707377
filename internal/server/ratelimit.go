package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an idle client keeps its token bucket.
const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	logger *zap.Logger
	limit  rate.Limit
	burst  int
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientEntry
	lastSweep time.Time
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(logger *zap.Logger, rps float64, burst int) *clientLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &clientLimiter{
		logger:  logger,
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     limiterIdleTTL,
		now:     time.Now,
		clients: make(map[string]*clientEntry),
	}
}

// allow reports whether key may make another request now.
func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.ttl {
		for k, entry := range l.clients {
			if now.Sub(entry.lastSeen) > l.ttl {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.clients[key]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			key = r.RemoteAddr
		}

		if !l.allow(key) {
			l.logger.Warn("rate limit exceeded",
				zap.String("op", "server.rateLimit"),
				zap.String("client", key),
				zap.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", "1")
			writeJSON(l.logger, w, http.StatusTooManyRequests, map[string]string{
				"error": "too many requests, please try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
