package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"hotel_booking/internal/adapters/observability"
)

// ---- Metrics middleware ----

// status reports what the handler sent; a handler that never wrote is a 200.
func status(ww chimw.WrapResponseWriter) int {
	if st := ww.Status(); st != 0 {
		return st
	}
	return http.StatusOK
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.ObserveHTTP(routePattern(r), r.Method, status(ww), time.Since(start))
	})
}

// ---- Access log ----

func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			st := status(ww)
			ev := l.Info()
			if st >= 500 {
				ev = l.Error()
			}
			ev.Str("route", routePattern(r)).
				Str("method", r.Method).
				Int("status", st).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("client", clientIP(r)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http_request")
		})
	}
}

// ---- Per-client rate limiting ----

const defaultMaxVisitors = 10000

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per client IP. Once maxVisitors distinct
// clients are active, new ones share a single overflow bucket.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	overflow    *rate.Limiter
	rps         rate.Limit
	burst       int
	idle        time.Duration
	maxVisitors int
	now         func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors:    make(map[string]*visitor),
		overflow:    rate.NewLimiter(rate.Limit(rps), burst),
		rps:         rate.Limit(rps),
		burst:       burst,
		idle:        5 * time.Minute,
		maxVisitors: defaultMaxVisitors,
		now:         time.Now,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[ip]
	if !ok {
		rl.sweep(now)
		if len(rl.visitors) >= rl.maxVisitors {
			return rl.overflow
		}
		v = &visitor{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.seen = now
	return v.lim
}

// sweep drops idle visitors; rl.mu must be held.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.seen) > rl.idle {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter(clientIP(r)).Allow() {
			observability.ObserveRateLimited()
			w.Header().Set("Retry-After", "1")
			writeProblem(w, http.StatusTooManyRequests, "rate_limited", "Too Many Requests", "slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the host part of the connection address. Forwarding headers are
// only reflected here when chimw.RealIP runs first (Options.TrustProxy).
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
