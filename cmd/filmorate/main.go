// cmd/filmorate/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"filmorate/internal/api"
	"filmorate/internal/cache"
	"filmorate/internal/config"
	grpcServer "filmorate/internal/grpc"
	"filmorate/internal/logging"
	"filmorate/internal/service"
	"filmorate/internal/store"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	_ "go.uber.org/automaxprocs"
)

// redactURL убирает пароль из строки подключения для логов.
func redactURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}

// connectToDB инициализирует пул соединений с базой данных.
func connectToDB(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sqlx.DB, error) {
	logger.InfoContext(ctx, "Attempting to connect to PostgreSQL", slog.String("url", redactURL(cfg.URL)))

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.InfoContext(ctx, "Successfully connected to PostgreSQL")
	return db, nil
}

// connectCache возвращает кэш поверх Redis или nil, если Redis выключен или недоступен.
func connectCache(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*cache.Cache, func()) {
	if !cfg.Enabled {
		logger.InfoContext(ctx, "Redis cache disabled")
		return nil, func() {}
	}
	rdb, err := cache.Connect(ctx, &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err != nil {
		logger.WarnContext(ctx, "Redis unavailable, continuing without cache", slog.String("addr", cfg.Addr), slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.InfoContext(ctx, "Connected to Redis", slog.String("addr", cfg.Addr))
	return cache.New(rdb, cfg.TTL, logger), func() {
		if err := rdb.Close(); err != nil {
			logger.Error("Failed to close Redis client", slog.String("error", err.Error()))
		}
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "filmorate: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- База данных ---
	db, err := connectToDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		logger.Info("Closing PostgreSQL database connection...")
		if err := db.Close(); err != nil {
			logger.Error("Failed to close PostgreSQL connection", slog.String("error", err.Error()))
		}
	}()

	if cfg.Database.Migrate {
		if err := store.Migrate(ctx, db, logger); err != nil {
			logger.Error("Failed to apply database schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	stores, err := store.NewPostgresStores(db, logger)
	if err != nil {
		logger.Error("Failed to initialize PostgreSQL stores", slog.String("error", err.Error()))
		os.Exit(1)
	}

	filmCache, closeCache := connectCache(ctx, cfg.Redis, logger)
	defer closeCache()

	services := service.New(stores, filmCache, logger)

	// --- gRPC health ---
	grpcAddr := net.JoinHostPort("", strconv.Itoa(cfg.Server.GRPCPort))
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Error("Failed to listen for gRPC", slog.String("addr", grpcAddr), slog.String("error", err.Error()))
		os.Exit(1)
	}
	grpcSrv := grpcServer.NewServer(logger)
	grpcSrv.SetServing(true)
	go grpcSrv.WatchDB(ctx, db, 15*time.Second)
	go func() {
		logger.Info("gRPC server starting", slog.String("addr", grpcAddr))
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Error("gRPC server Serve() failed", slog.String("error", err.Error()))
		}
	}()

	// --- HTTP ---
	handler := api.NewHandler(services, db, logger, api.NewValidator())
	httpSrv := &http.Server{
		Addr:         net.JoinHostPort("", strconv.Itoa(cfg.Server.HTTPPort)),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	go func() {
		logger.Info("HTTP server starting", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Filmorate shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	grpcSrv.GracefulStop()
	logger.Info("gRPC server gracefully stopped")
}
