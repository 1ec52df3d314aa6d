package postgres

import (
	"context"
	"fmt"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates the pgx connection pool for the delivery-history log.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: cannot create pool: %w", err)
	}
	return pool, nil
}
