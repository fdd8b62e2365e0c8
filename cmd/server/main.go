package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Unaivero/financiera-ancestral/config"
	memorycache "github.com/Unaivero/financiera-ancestral/internal/adapters/cache/memory"
	rediscache "github.com/Unaivero/financiera-ancestral/internal/adapters/cache/redis"
	httpserver "github.com/Unaivero/financiera-ancestral/internal/adapters/handlers/http"
	"github.com/Unaivero/financiera-ancestral/internal/adapters/handlers/http/handler"
	redislimit "github.com/Unaivero/financiera-ancestral/internal/adapters/ratelimit/redis"
	"github.com/Unaivero/financiera-ancestral/internal/adapters/repository/postgres"
	"github.com/Unaivero/financiera-ancestral/internal/core/port"
	"github.com/Unaivero/financiera-ancestral/internal/core/service"
	"github.com/Unaivero/financiera-ancestral/internal/core/service/ratelimit"
	pkgconfig "github.com/Unaivero/financiera-ancestral/pkg/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	opts := []pkgconfig.Option{
		pkgconfig.WithLogger(cfg.Server.LogLvl),
		pkgconfig.WithPostgres(
			cfg.Postgres.User,
			cfg.Postgres.Pass,
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.DBName,
		),
	}
	if cfg.Redis.Enabled {
		opts = append(opts, pkgconfig.WithRedis(cfg.Redis.Addr, cfg.Redis.DB))
	}

	deps, err := pkgconfig.NewDependencies(ctx, opts...)
	if err != nil {
		slog.Error("failed to load dependencies", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Close()
	logger := deps.Logger

	store := postgres.NewStockRepository(deps.Postgres, logger)

	// With Redis enabled the cache and the quota are shared across server
	// processes; otherwise both stay process-local.
	var (
		cache   port.CachePort
		limiter port.LimiterPort
		cacheHC handler.Pinger
	)
	if cfg.Redis.Enabled {
		redisCache := rediscache.NewResponseCache(deps.Redis, cfg.Limits.CacheTTL, logger)
		cache = redisCache
		cacheHC = redisCache
		limiter = redislimit.NewFixedWindow(deps.Redis, cfg.Limits.MaxRequests, cfg.Limits.Window, logger)
	} else {
		memCache := memorycache.NewResponseCache(cfg.Limits.CacheTTL, cfg.Limits.CacheMaxEntries, logger)
		memCache.StartSweeper(ctx, cfg.Limits.CacheTTL)
		cache = memCache
		limiter = ratelimit.NewFixedWindow(cfg.Limits.MaxRequests, cfg.Limits.Window)
	}

	queries := service.NewQueryService(store, cache, limiter, cfg.Limits.DefaultLimit, logger)
	queryHandler := handler.NewQueryHandler(logger, queries, store, cacheHC)
	srv := httpserver.NewServer(logger, queryHandler)

	run(ctx, cfg, logger, srv)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, srv http.Handler) {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv,
	}

	go func() {
		logger.Info("server listening", slog.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("error listening and serving", slog.Any("error", err))
		}
	}()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("gracefully shutting down")

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("error shutting down http server", slog.Any("error", err))
		}
	}()
	wg.Wait()
}
