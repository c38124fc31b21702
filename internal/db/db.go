package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions ajusta el pool sin obligar a codificarlo en DATABASE_URL.
type PoolOptions struct {
	ApplicationName string
	MaxConns        int32
}

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

var (
	newPool  = pgxpool.NewWithConfig
	pingPool = func(ctx context.Context, pool poolPinger) error {
		return pool.Ping(ctx)
	}
	closePool = func(pool poolPinger) {
		pool.Close()
	}
)

// NewPool crea un pool de conexiones a PostgreSQL.
// Se usa un timeout corto para evitar que el arranque quede colgado si la DB no responde.
func NewPool(ctx context.Context, databaseURL string, options PoolOptions) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	if options.ApplicationName != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = options.ApplicationName
	}
	if options.MaxConns > 0 {
		poolConfig.MaxConns = options.MaxConns
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := newPool(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	// La app no arranca "a medias": si no hay DB, fallamos acá.
	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, err
	}

	return pool, nil
}
