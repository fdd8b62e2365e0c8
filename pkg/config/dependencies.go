package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Dependencies owns the process-wide clients the adapters are built on.
// Options attach one dependency each; a failed option tears down whatever
// was already attached.
type Dependencies struct {
	Postgres *pgxpool.Pool
	Redis    *redis.Client
	Logger   *slog.Logger
}

type Option func(context.Context, *Dependencies) error

func (d *Dependencies) Close() {
	if d == nil {
		return
	}

	if d.Postgres != nil {
		d.Postgres.Close()
	}
	if d.Redis != nil {
		d.Redis.Close()
	}
}

func NewDependencies(ctx context.Context, opts ...Option) (*Dependencies, error) {
	deps := &Dependencies{}

	for _, opt := range opts {
		if err := opt(ctx, deps); err != nil {
			deps.Close()
			return nil, err
		}
	}

	return deps, nil
}

// WithPostgres opens a pgx pool against the record store and verifies the
// connection before handing it out.
func WithPostgres(user, password, host, port, dbName string) Option {
	return func(ctx context.Context, d *Dependencies) error {
		connString := fmt.Sprintf(
			"postgresql://%s:%s@%s:%s/%s?sslmode=disable",
			user, password, host, port, dbName,
		)

		pool, err := pgxpool.New(ctx, connString)
		if err != nil {
			return fmt.Errorf("open postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("ping postgres: %w", err)
		}

		d.Postgres = pool
		return nil
	}
}

// WithRedis connects the shared cache/limiter backend. Only used when the
// deployment opts into cross-process caching.
func WithRedis(addr string, db int) Option {
	return func(ctx context.Context, d *Dependencies) error {
		client := redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}

		d.Redis = client
		return nil
	}
}

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// WithLogger installs the process logger: debug in dev, info in prod.
func WithLogger(level string) Option {
	return func(_ context.Context, d *Dependencies) error {
		logLvl := slog.LevelInfo
		if level == EnvDev {
			logLvl = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLvl,
		}))
		slog.SetDefault(logger)
		d.Logger = logger
		return nil
	}
}
