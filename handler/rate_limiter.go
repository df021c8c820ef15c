package handler

import (
	"net"
	"net/http"
	"sync"
	"time"

	"caltracker-api/common"
	"caltracker-api/config"
	"caltracker-api/logger"

	"golang.org/x/time/rate"
)

// maxLoginBuckets caps how many client IPs are tracked at once.
const maxLoginBuckets = 10000

type loginBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter keeps one token bucket per client IP. A bucket idle for
// longer than idleTTL has refilled completely, so it is dropped; pruning
// runs during lookups, at most once per idleTTL.
type LoginLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*loginBucket
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewLoginLimiter(cfg config.RateLimitConfig) *LoginLimiter {
	limit := rate.Limit(cfg.LoginPerMinute / time.Minute.Seconds())
	idleTTL := time.Duration(float64(cfg.LoginBurst) / float64(limit) * float64(time.Second))
	if idleTTL < time.Minute {
		idleTTL = time.Minute
	}
	return &LoginLimiter{
		buckets: make(map[string]*loginBucket),
		limit:   limit,
		burst:   cfg.LoginBurst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (l *LoginLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	b, ok := l.buckets[ip]
	if !ok {
		if len(l.buckets) >= maxLoginBuckets {
			l.sweep(now)
			if len(l.buckets) >= maxLoginBuckets {
				l.evictOldest()
			}
		}
		b = &loginBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter
}

func (l *LoginLimiter) sweep(now time.Time) {
	for ip, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.buckets, ip)
		}
	}
	l.lastSweep = now
}

func (l *LoginLimiter) evictOldest() {
	var (
		oldestIP string
		oldest   time.Time
	)
	for ip, b := range l.buckets {
		if oldestIP == "" || b.lastSeen.Before(oldest) {
			oldestIP, oldest = ip, b.lastSeen
		}
	}
	delete(l.buckets, oldestIP)
}

// Middleware rejects requests from an IP whose bucket is empty with 429.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.limiterFor(ip).Allow() {
			logger.Log.WithField("client_ip", ip).Warn("Login rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			common.NewAppError(http.StatusTooManyRequests, "Too many attempts, try again later", nil).Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
