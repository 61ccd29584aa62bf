package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/urbanbyte/contas/internal/auth"
	"github.com/urbanbyte/contas/internal/msg"
	"github.com/urbanbyte/contas/internal/repo"
)

type contextKey string

const (
	// ContextKeyUsuario guarda o usuário autenticado da requisição.
	ContextKeyUsuario contextKey = "usuario"
)

// UsuarioStore é o recorte do repositório usado pela cadeia de autenticação.
type UsuarioStore interface {
	Get(ctx context.Context, id int64) (repo.Usuario, error)
}

// Auth decodifica o bearer token, carrega o usuário referenciado e o injeta
// no contexto. Token ausente ou inválido rejeita com 403; subject inexistente
// rejeita com 404.
func Auth(jwtManager *auth.JWTManager, store UsuarioStore, cat msg.Catalogo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeDetail(w, http.StatusForbidden, cat.T(msg.CredenciaisNaoValidadas))
				return
			}

			claims, err := jwtManager.Decodificar(parts[1])
			if err != nil {
				writeDetail(w, http.StatusForbidden, cat.T(msg.CredenciaisNaoValidadas))
				return
			}

			id, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				writeDetail(w, http.StatusForbidden, cat.T(msg.CredenciaisNaoValidadas))
				return
			}

			usuario, err := store.Get(r.Context(), id)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					writeDetail(w, http.StatusNotFound, cat.T(msg.UsuarioNaoEncontrado))
					return
				}
				writeDetail(w, http.StatusInternalServerError, cat.T(msg.ErroInterno))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUsuario, usuario)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsuarioAtual recupera o usuário autenticado do contexto.
func UsuarioAtual(ctx context.Context) (repo.Usuario, bool) {
	usuario, ok := ctx.Value(ContextKeyUsuario).(repo.Usuario)
	return usuario, ok
}

// RequireAtivo rejeita contas desativadas.
func RequireAtivo(cat msg.Catalogo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			usuario, ok := UsuarioAtual(r.Context())
			if !ok {
				writeDetail(w, http.StatusForbidden, cat.T(msg.CredenciaisNaoValidadas))
				return
			}
			if !usuario.Ativo {
				writeDetail(w, http.StatusBadRequest, cat.T(msg.UsuarioInativo))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperusuario garante privilégio administrativo.
func RequireSuperusuario(cat msg.Catalogo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			usuario, ok := UsuarioAtual(r.Context())
			if !ok {
				writeDetail(w, http.StatusForbidden, cat.T(msg.CredenciaisNaoValidadas))
				return
			}
			if !usuario.Superusuario {
				writeDetail(w, http.StatusBadRequest, cat.T(msg.PrivilegiosInsuficientes))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
