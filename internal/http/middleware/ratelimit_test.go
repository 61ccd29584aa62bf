package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/urbanbyte/contas/internal/msg"
)

func newLoginLimiter(t *testing.T, max int, janela time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLoginLimiter(client, max, janela), mr
}

func TestLoginLimiterDentroDoLimite(t *testing.T) {
	limiter, _ := newLoginLimiter(t, 3, time.Minute)
	cat := msg.NovoCatalogo("pt-BR")

	handler := limiter.Limit(cat)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login/access-token", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("tentativa %d: status %d", i+1, rec.Code)
		}
	}
}

func TestLoginLimiterEstourado(t *testing.T) {
	limiter, _ := newLoginLimiter(t, 2, time.Minute)
	cat := msg.NovoCatalogo("pt-BR")

	handler := limiter.Limit(cat)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var ultimo *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		ultimo = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login/access-token", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(ultimo, req)
	}

	if ultimo.Code != http.StatusTooManyRequests {
		t.Fatalf("terceira tentativa deveria ser 429, veio %d", ultimo.Code)
	}
	if ultimo.Header().Get("Retry-After") == "" {
		t.Error("resposta 429 deveria trazer Retry-After")
	}
}

func TestLoginLimiterChavePorIP(t *testing.T) {
	limiter, _ := newLoginLimiter(t, 1, time.Minute)
	cat := msg.NovoCatalogo("pt-BR")

	handler := limiter.Limit(cat)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	primeira := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login/access-token", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(primeira, req)

	// outro IP não compartilha o contador
	outra := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/login/access-token", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	handler.ServeHTTP(outra, req2)

	if primeira.Code != http.StatusOK || outra.Code != http.StatusOK {
		t.Fatalf("IPs distintos deveriam passar: %d e %d", primeira.Code, outra.Code)
	}
}

func TestLoginLimiterJanelaExpira(t *testing.T) {
	limiter, mr := newLoginLimiter(t, 1, time.Minute)
	cat := msg.NovoCatalogo("pt-BR")

	handler := limiter.Limit(cat)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	fazer := func() int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login/access-token", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if fazer() != http.StatusOK {
		t.Fatal("primeira tentativa deveria passar")
	}
	if fazer() != http.StatusTooManyRequests {
		t.Fatal("segunda tentativa deveria estourar")
	}

	mr.FastForward(2 * time.Minute)

	if fazer() != http.StatusOK {
		t.Fatal("após a janela o contador deveria zerar")
	}
}

func TestIPRateLimitEmMemoria(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	cat := msg.NovoCatalogo("pt-BR")

	handler := IPRateLimit(limiter, cat)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec1 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/actuator/health", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	handler.ServeHTTP(rec1, req)

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req)

	if rec1.Code != http.StatusOK {
		t.Fatalf("primeira requisição: %d", rec1.Code)
	}
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("burst 1 deveria limitar a segunda: %d", rec2.Code)
	}
}
