package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urbanbyte/contas/internal/auth"
	"github.com/urbanbyte/contas/internal/config"
	"github.com/urbanbyte/contas/internal/db"
	internalhttp "github.com/urbanbyte/contas/internal/http"
	"github.com/urbanbyte/contas/internal/mail"
	"github.com/urbanbyte/contas/internal/migrations"
	"github.com/urbanbyte/contas/internal/repo"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	if err := migrar(ctx, cfg.DBDSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	repository := repo.NewRepositorio(pool)
	jwtManager := auth.NewJWTManager(cfg.ChaveSecreta, cfg.AccessTokenTTL, cfg.ResetTokenTTL)

	mailer, err := mail.NewSender(cfg)
	if err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if !mailer.Enabled() {
		log.Warn().Msg("envio de emails desabilitado: SMTP incompleto na configuração")
	}

	handler := internalhttp.NewRouter(cfg, repository, jwtManager, mailer, redisClient)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Porta),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Porta)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// migrar aplica as migrações embutidas por uma conexão database/sql dedicada,
// que o goose exige.
func migrar(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return migrations.Run(ctx, sqlDB)
}
