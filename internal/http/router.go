package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/urbanbyte/contas/internal/auth"
	"github.com/urbanbyte/contas/internal/config"
	httpmiddleware "github.com/urbanbyte/contas/internal/http/middleware"
	"github.com/urbanbyte/contas/internal/msg"
	"github.com/urbanbyte/contas/internal/repo"
)

// UsuarioStore é o contrato de persistência consumido pelos handlers.
type UsuarioStore interface {
	Get(ctx context.Context, id int64) (repo.Usuario, error)
	GetByEmail(ctx context.Context, email string) (repo.Usuario, error)
	GetByCPF(ctx context.Context, cpf string) (repo.Usuario, error)
	List(ctx context.Context, skip, limit int) ([]repo.Usuario, error)
	Create(ctx context.Context, input repo.CriarUsuario) (repo.Usuario, error)
	Update(ctx context.Context, existente repo.Usuario, input repo.AtualizarUsuario) (repo.Usuario, error)
	Authenticate(ctx context.Context, email, senha string) (repo.Usuario, error)
	Remove(ctx context.Context, id int64) (repo.Usuario, error)
}

// EmailSender é o recorte do remetente de emails usado pelos handlers.
type EmailSender interface {
	Enabled() bool
	EnviarEmailTeste(ctx context.Context, para string) error
	EnviarEmailRedefinicaoSenha(ctx context.Context, para, token string) error
	EnviarEmailNovaConta(ctx context.Context, para, usuario, senha string) error
}

// Handler concentra as dependências dos endpoints.
type Handler struct {
	cfg    *config.Config
	store  UsuarioStore
	jwt    *auth.JWTManager
	mailer EmailSender
	cat    msg.Catalogo
}

// NewHandler monta o conjunto de handlers.
func NewHandler(cfg *config.Config, store UsuarioStore, jwtManager *auth.JWTManager, mailer EmailSender) *Handler {
	return &Handler{
		cfg:    cfg,
		store:  store,
		jwt:    jwtManager,
		mailer: mailer,
		cat:    msg.NovoCatalogo(cfg.Idioma),
	}
}

// NewRouter devolve o roteador com a cadeia de middlewares e as rotas da API
// sob o prefixo versionado.
func NewRouter(cfg *config.Config, store UsuarioStore, jwtManager *auth.JWTManager, mailer EmailSender, redisClient *redis.Client) http.Handler {
	h := NewHandler(cfg, store, jwtManager, mailer)

	publicLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPublico.RequestsPerSecond, cfg.RateLimitPublico.Burst)
	loginLimiter := httpmiddleware.NewLoginLimiter(redisClient, cfg.LimiteLogin.Max, cfg.LimiteLogin.Janela)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Get("/actuator/health", h.Health)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Group(func(public chi.Router) {
			public.Use(httpmiddleware.IPRateLimit(publicLimiter, h.cat))

			public.With(loginLimiter.Limit(h.cat)).Post("/login/access-token", h.LoginAccessToken)
			public.Post("/password-recovery/{email}", h.RecuperarSenha)
			public.Post("/reset-password/", h.RedefinirSenha)
			public.Post("/create-password/", h.CriarSenha)
			public.Post("/users/open", h.CriarUsuarioAberto)
		})

		v1.Group(func(private chi.Router) {
			private.Use(httpmiddleware.Auth(jwtManager, store, h.cat))
			private.Use(httpmiddleware.RequireAtivo(h.cat))

			private.Get("/users/me", h.LerUsuarioAtual)
			private.Put("/users/me", h.AtualizarUsuarioAtual)
			private.Get("/users/{id}", h.LerUsuarioPorID)

			private.Group(func(admin chi.Router) {
				admin.Use(httpmiddleware.RequireSuperusuario(h.cat))

				admin.Get("/users/", h.ListarUsuarios)
				admin.Post("/users/", h.CriarUsuario)
				admin.Put("/users/{id}", h.AtualizarUsuario)
				admin.Post("/utils/test-email/", h.EmailTeste)
			})
		})
	})

	return r
}

// Health responde a sonda de liveness, sem autenticação.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, Msg{Msg: "success"})
}
