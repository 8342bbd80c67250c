package client

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PoolOptions - размеры пула и ожидание старта базы
type PoolOptions struct {
	MaxConns     int32
	MinConns     int32
	ConnAttempts int
	RetryDelay   time.Duration
}

func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:     10,
		MinConns:     1,
		ConnAttempts: 5,
		RetryDelay:   2 * time.Second,
	}
}

type PostgresClient struct {
	Pool *pgxpool.Pool
}

// NewPostgresClient создает пул и ждет, пока база ответит на ping.
// В docker compose postgres часто поднимается позже сервиса.
func NewPostgresClient(ctx context.Context, connString string, opts PoolOptions, logger *zap.Logger) (*PostgresClient, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolConfig.MaxConns = opts.MaxConns
	poolConfig.MinConns = opts.MinConns
	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	attempts := max(opts.ConnAttempts, 1)
	for i := 1; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			break
		}
		if i == attempts {
			pool.Close()
			return nil, fmt.Errorf("ping database after %d attempts: %w", attempts, err)
		}

		logger.Warn("postgres is not ready, retrying",
			zap.Int("attempt", i),
			zap.Duration("delay", opts.RetryDelay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	return &PostgresClient{Pool: pool}, nil
}

func (c *PostgresClient) Close() {
	c.Pool.Close()
}

func (c *PostgresClient) HealthCheck(ctx context.Context) error {
	return c.Pool.Ping(ctx)
}
