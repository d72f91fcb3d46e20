package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	httpdelivery "github.com/Xausdorf/pix-pay-hub/internal/delivery/http"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/repository"
	"github.com/Xausdorf/pix-pay-hub/internal/infrastructure/config"
	"github.com/Xausdorf/pix-pay-hub/internal/infrastructure/keepalive"
	"github.com/Xausdorf/pix-pay-hub/internal/infrastructure/memory"
	"github.com/Xausdorf/pix-pay-hub/internal/infrastructure/postgres"
	"github.com/Xausdorf/pix-pay-hub/internal/infrastructure/qrgenerator"
	"github.com/Xausdorf/pix-pay-hub/internal/infrastructure/rediscache"
	"github.com/Xausdorf/pix-pay-hub/internal/usecase/chargestatus"
	"github.com/Xausdorf/pix-pay-hub/internal/usecase/createcharge"
)

const (
	dbMaxConns            = 10
	dbMinConns            = 2
	dbMaxConnLifetime     = 30 * time.Minute
	dbMaxConnIdleTime     = 5 * time.Minute
	readHeaderTimeout     = 5 * time.Second
	gracefulShutdownDelay = 5 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	var uow repository.UnitOfWork
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, charges are kept in memory")
		uow = memory.NewUnitOfWork(memory.NewStore())
	} else {
		pool, err := initDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database init failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		uow = postgres.NewUnitOfWork(pool)
	}

	var cache repository.StatusCache
	if cfg.RedisAddr != "" {
		client := rediscache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()

		redisCache := rediscache.New(client)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, status cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			cache = redisCache
		}
	}

	createChargeUC := createcharge.NewUseCase(uow, qrgenerator.NewGenerator(cfg.QRSize))
	chargeStatusUC := chargestatus.NewUseCase(uow, cache, cfg.StatusCacheTTL)

	handler := httpdelivery.NewHandler(createChargeUC, chargeStatusUC, logger)
	router := httpdelivery.NewRouter(handler)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	pinger := keepalive.NewPinger(cfg.SelfPingURL, cfg.SelfPingDelay, cfg.SelfPingInterval, logger)
	go pinger.Run(ctx)

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", serveErr)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownDelay)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

func initDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = dbMaxConns
	cfg.MinConns = dbMinConns
	cfg.MaxConnLifetime = dbMaxConnLifetime
	cfg.MaxConnIdleTime = dbMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
