package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"golang.org/x/time/rate"
)

// ipRateLimiter hands out one token bucket per client IP. A bucket holds
// limit tokens and refills completely over window, so a client can spend its
// whole budget at once and then one request per window/limit.
type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	limit  int
	every  rate.Limit
	window time.Duration

	now func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(limit int, window time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		every:    rate.Every(window / time.Duration(limit)),
		window:   window,
		now:      time.Now,
	}
}

// allow reports whether ip may make another request now.
func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.limit)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// prune drops buckets idle for longer than a window. Such buckets are full
// again, so forgetting them changes nothing for the client.
func (l *ipRateLimiter) prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	removed := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// middleware rejects requests over budget with 429 and message.
func (l *ipRateLimiter) middleware(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !l.allow(ip) {
				logger.FromRequest(r).Warn().Str("ip", ip).Str("uri", r.URL.Path).Msg("rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window/time.Duration(l.limit)/time.Second)+1))
				utils.WriteError(w, message, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. middleware.RealIP has already
// replaced RemoteAddr with the forwarded address when one is present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// PruneRateLimiters drops idle per-IP buckets of every limiter. The server's
// cleanup worker calls it periodically.
func (h *Handler) PruneRateLimiters() int {
	return h.globalLimiter.prune() + h.verificationLimiter.prune() + h.resetLimiter.prune()
}

func (h *Handler) withGlobalRateLimit(next http.Handler) http.Handler {
	return h.globalLimiter.middleware(app.MsgTooManyRequests)(next)
}
