package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
	"golang.org/x/time/rate"
)

// RateLimiter mantém um limitador por IP; limitadores sem uso expiram do cache
type RateLimiter struct {
	limiters   *cache.Cache
	limit      rate.Limit
	burst      int
	trustProxy bool
}

// NewRateLimiter cria o limitador. Com trustProxy o IP vem do X-Forwarded-For,
// que só deve ser ligado quando a API roda atrás de um proxy reverso conhecido.
func NewRateLimiter(requestsPerSecond float64, burst int, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		limiters:   cache.New(10*time.Minute, 20*time.Minute),
		limit:      rate.Limit(requestsPerSecond),
		burst:      burst,
		trustProxy: trustProxy,
	}
}

func (l *RateLimiter) limiterFor(key string) *rate.Limiter {
	if cached, found := l.limiters.Get(key); found {
		return cached.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	// Add falha se outra requisição criou o limitador antes; nesse caso usa o existente
	if err := l.limiters.Add(key, limiter, cache.DefaultExpiration); err != nil {
		if cached, found := l.limiters.Get(key); found {
			return cached.(*rate.Limiter)
		}
	}

	return limiter
}

// Allow consome um token do limitador do cliente e renova sua expiração
func (l *RateLimiter) Allow(key string) bool {
	limiter := l.limiterFor(key)
	l.limiters.Set(key, limiter, cache.DefaultExpiration)
	return limiter.Allow()
}

func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, limiter.trustProxy)

			if !limiter.Allow(ip) {
				logrus.WithFields(logrus.Fields{
					"ip":   ip,
					"path": r.URL.Path,
				}).Warn("Limite de requisições excedido")
				w.Header().Set("Retry-After", "1")
				apiErrors.WriteError(w, apiErrors.ErrTooManyRequests, "Muitas requisições, tente novamente em instantes", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// O proxy acrescenta o endereço que viu ao final da lista
		hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		if ip := net.ParseIP(strings.TrimSpace(hops[len(hops)-1])); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
