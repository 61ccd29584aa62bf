package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urbanbyte/contas/internal/config"
	"github.com/urbanbyte/contas/internal/cpf"
	"github.com/urbanbyte/contas/internal/db"
	"github.com/urbanbyte/contas/internal/migrations"
	"github.com/urbanbyte/contas/internal/repo"
)

// bootstrap aplica as migrações e garante o primeiro superusuário. É
// idempotente: rodar de novo com o mesmo email não cria nada.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	documento := flag.String("cpf", "", "CPF do primeiro superusuário (gerado quando omitido)")
	telefone := flag.String("telefone", "", "telefone do primeiro superusuário")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.PrimeiroSuperusuario == "" || cfg.SenhaPrimeiroSuperusuario == "" {
		log.Fatal().Msg("defina PRIMEIRO_SUPERUSUARIO e SENHA_PRIMEIRO_SUPERUSUARIO")
	}
	if *documento == "" {
		*documento = cpf.Gerar()
	}
	if !cpf.Valido(*documento) {
		log.Fatal().Str("cpf", *documento).Msg("CPF inválido")
	}
	if *telefone == "" {
		log.Fatal().Msg("informe -telefone")
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível conectar ao banco")
	}
	defer pool.Close()

	sqlDB, err := sql.Open("pgx", cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir conexão para migrações")
	}
	defer sqlDB.Close()
	if err := migrations.Run(ctx, sqlDB); err != nil {
		log.Fatal().Err(err).Msg("migrações")
	}

	repository := repo.NewRepositorio(pool)

	if _, err := repository.GetByEmail(ctx, cfg.PrimeiroSuperusuario); err == nil {
		log.Info().Str("email", cfg.PrimeiroSuperusuario).Msg("superusuário já existe, nada a fazer")
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		log.Fatal().Err(err).Msg("consultar superusuário")
	}

	usuario, err := repository.Create(ctx, repo.CriarUsuario{
		CPF:          *documento,
		Email:        cfg.PrimeiroSuperusuario,
		Telefone:     *telefone,
		Senha:        cfg.SenhaPrimeiroSuperusuario,
		Permissao:    repo.PermissaoAdministrador,
		Ativo:        true,
		Superusuario: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("criar superusuário")
	}

	log.Info().Int64("id", usuario.ID).Str("email", usuario.Email).Msg("superusuário criado")
}
