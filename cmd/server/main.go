package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	goredis "github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/goliatone/go-guest-auth"
	"github.com/goliatone/go-guest-auth/adapters/redis"
	"github.com/goliatone/go-guest-auth/config"
	"github.com/goliatone/go-guest-auth/middleware/identityware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	lgr := auth.NewSlogLogger(logger)

	tokens, err := auth.NewTokenServiceFromConfig(cfg, lgr.Named("tokens"))
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	db, err := openDB(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("close database failed", "error", cerr)
		}
	}()

	accounts := auth.NewAccountsRepository(db)
	if err := accounts.CreateSchema(ctx); err != nil {
		return err
	}

	store, closeStore, err := sessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := auth.NewStoreSessionProvider(store, cfg).
		WithLogger(lgr.Named("sessions"))

	resolver := auth.NewIdentityResolver(
		sessions,
		tokens,
		auth.NewGuestCookieStore(cfg),
		auth.WithResolverLogger(lgr.Named("resolver")),
	)

	bridge := auth.NewCallbackBridgeFromClients(accounts, cfg.OAuthClients()).
		WithLogger(lgr.Named("bridge"))

	controller := auth.NewAuthController(resolver, bridge, sessions,
		auth.WithControllerLogger(lgr.Named("controller")),
		auth.WithMeGuard(identityware.New(identityware.Config{
			Verifier:        tokens,
			ContextEnricher: auth.WithClaimsContext,
		})),
	)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return fiber.New(fiber.Config{
			AppName:               "guest-auth",
			DisableStartupMessage: true,
			UnescapePath:          true,
		})
	})
	srv.Router().WithLogger(lgr.Named("router"))

	auth.RegisterAuthRoutes(srv.Router().Group("/"), controller)

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr, "production", cfg.IsProduction())
		errc <- srv.Serve(cfg.HTTP.Addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func sessionStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (auth.SessionStore, func(), error) {
	if !cfg.UseRedis() {
		logger.Warn("REDIS_ADDR not set, sessions are kept in memory")
		return auth.NewMemorySessionStore(), func() {}, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("close redis failed", "error", err)
		}
	}

	return redis.NewSessionStoreWithPrefix(client, cfg.Redis.Prefix), closeFn, nil
}
