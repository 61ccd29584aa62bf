package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/urbanbyte/contas/internal/auth"
	"github.com/urbanbyte/contas/internal/msg"
	"github.com/urbanbyte/contas/internal/repo"
)

type stubStore struct {
	usuarios map[int64]repo.Usuario
}

func (s *stubStore) Get(ctx context.Context, id int64) (repo.Usuario, error) {
	if u, ok := s.usuarios[id]; ok {
		return u, nil
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func newChain(t *testing.T, usuarios map[int64]repo.Usuario, superusuario bool) (http.Handler, *auth.JWTManager) {
	t.Helper()

	jwtManager := auth.NewJWTManager(strings.Repeat("s", 32), time.Hour, time.Hour)
	cat := msg.NovoCatalogo("pt-BR")
	store := &stubStore{usuarios: usuarios}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var handler http.Handler = final
	if superusuario {
		handler = RequireSuperusuario(cat)(handler)
	}
	handler = RequireAtivo(cat)(handler)
	handler = Auth(jwtManager, store, cat)(handler)
	return handler, jwtManager
}

func requestComToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func detalhe(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("corpo não é JSON: %v", err)
	}
	return body["detail"]
}

func TestAuthSemToken(t *testing.T) {
	handler, _ := newChain(t, nil, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestComToken(""))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: %d", rec.Code)
	}
	if got := detalhe(t, rec); got != "Não foi possível validar as credenciais." {
		t.Errorf("detail: %q", got)
	}
}

func TestAuthTokenInvalido(t *testing.T) {
	handler, _ := newChain(t, nil, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestComToken("lixo"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestAuthUsuarioInexistente(t *testing.T) {
	handler, jwtManager := newChain(t, map[int64]repo.Usuario{}, false)

	token, err := jwtManager.CriarTokenAcesso("99", 0)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestComToken(token))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rec.Code)
	}
	if got := detalhe(t, rec); got != "Usuário não encontrado." {
		t.Errorf("detail: %q", got)
	}
}

func TestAuthUsuarioInativo(t *testing.T) {
	usuarios := map[int64]repo.Usuario{7: {ID: 7, Email: "x@y.br", Ativo: false}}
	handler, jwtManager := newChain(t, usuarios, false)

	token, err := jwtManager.CriarTokenAcesso("7", 0)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestComToken(token))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rec.Code)
	}
	if got := detalhe(t, rec); got != "Usuário inativo." {
		t.Errorf("detail: %q", got)
	}
}

func TestRequireSuperusuarioRejeitaComum(t *testing.T) {
	usuarios := map[int64]repo.Usuario{7: {ID: 7, Ativo: true, Superusuario: false}}
	handler, jwtManager := newChain(t, usuarios, true)

	token, err := jwtManager.CriarTokenAcesso("7", 0)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestComToken(token))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rec.Code)
	}
	if got := detalhe(t, rec); got != "O usuário não tem privilégios suficientes." {
		t.Errorf("detail: %q", got)
	}
}

func TestCadeiaCompletaAceitaSuperusuario(t *testing.T) {
	usuarios := map[int64]repo.Usuario{7: {ID: 7, Ativo: true, Superusuario: true}}
	handler, jwtManager := newChain(t, usuarios, true)

	token, err := jwtManager.CriarTokenAcesso("7", 0)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestComToken(token))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d, corpo %s", rec.Code, rec.Body.String())
	}
}
