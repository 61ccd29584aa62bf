package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/urbanbyte/contas/internal/msg"
)

// RateLimiter mantém limiters em memória por chave com expiração simples.
// Serve de proteção genérica do grupo público.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	mu     sync.Mutex
	store  map[string]*limiterEntry
	maxAge time.Duration
}

type limiterEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

// NewRateLimiter cria instância compatível com múltiplas chaves.
func NewRateLimiter(reqPerSec float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:  rate.Limit(reqPerSec),
		burst:  burst,
		store:  make(map[string]*limiterEntry),
		maxAge: 10 * time.Minute,
	}
}

func (r *RateLimiter) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.store[key]; ok {
		entry.updated = time.Now()
		return entry.limiter
	}

	lim := rate.NewLimiter(r.limit, r.burst)
	r.store[key] = &limiterEntry{limiter: lim, updated: time.Now()}

	for k, entry := range r.store {
		if time.Since(entry.updated) > r.maxAge {
			delete(r.store, k)
		}
	}

	return lim
}

// IPRateLimit aplica o limiter em memória usando o IP remoto como chave.
func IPRateLimit(limiter *RateLimiter, cat msg.Catalogo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lim := limiter.get(realIPFromRequest(r))
			if !lim.Allow() {
				w.Header().Set("Retry-After", "1")
				writeDetail(w, http.StatusTooManyRequests, cat.T(msg.MuitasTentativas))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginLimiter aplica janela fixa por IP com contadores em Redis, o único
// estado compartilhado entre réplicas do processo.
type LoginLimiter struct {
	rdb    redis.Cmdable
	max    int
	janela time.Duration
}

// NewLoginLimiter cria o limiter do endpoint de login.
func NewLoginLimiter(rdb redis.Cmdable, max int, janela time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, max: max, janela: janela}
}

// Limit conta tentativas por IP; ao estourar a janela devolve 429. Falha de
// Redis não bloqueia o login: o limite é proteção, não dependência dura.
func (l *LoginLimiter) Limit(cat msg.Catalogo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			chave := "ratelimit:login:" + realIPFromRequest(r)

			contagem, err := l.rdb.Incr(r.Context(), chave).Result()
			if err != nil {
				log.Warn().Err(err).Msg("rate limit de login indisponível")
				next.ServeHTTP(w, r)
				return
			}
			if contagem == 1 {
				if err := l.rdb.Expire(r.Context(), chave, l.janela).Err(); err != nil {
					log.Warn().Err(err).Msg("falha ao definir expiração do rate limit")
				}
			}

			if contagem > int64(l.max) {
				w.Header().Set("Retry-After", strconv.Itoa(int(l.janela.Seconds())))
				writeDetail(w, http.StatusTooManyRequests, cat.T(msg.MuitasTentativas))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func realIPFromRequest(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); ip != "" {
		parts := strings.Split(ip, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
