package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const (
	tentativasPing  = 30
	intervaloEspera = 2 * time.Second
)

// NewPool abre o pool de conexões e aguarda o banco ficar pronto, tentando
// ping com intervalo fixo antes de desistir.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	for tentativa := 1; ; tentativa++ {
		err = pool.Ping(ctx)
		if err == nil {
			return pool, nil
		}
		if tentativa >= tentativasPing {
			pool.Close()
			return nil, fmt.Errorf("banco indisponível após %d tentativas: %w", tentativa, err)
		}

		log.Warn().Err(err).Int("tentativa", tentativa).Msg("aguardando banco de dados")
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(intervaloEspera):
		}
	}
}
