package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/monopoly/internal/auth"
	"github.com/playperu/monopoly/internal/config"
	"github.com/playperu/monopoly/internal/database"
	"github.com/playperu/monopoly/internal/handler/health"
	"github.com/playperu/monopoly/internal/kv"
	"github.com/playperu/monopoly/internal/migrations"
	"github.com/playperu/monopoly/internal/monopoly"
	"github.com/playperu/monopoly/internal/server"
	"github.com/playperu/monopoly/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	store, checks, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	board, err := monopoly.LoadBoard(cfg.Game.MapPath)
	if err != nil {
		return fmt.Errorf("loading board: %w", err)
	}
	logger.Info("board loaded", "fields", len(board), "path", cfg.Game.MapPath)

	authSvc := auth.NewService(store, auth.Config{
		Key:        []byte(cfg.JWTKey),
		AccessTTL:  cfg.AccessTokenTTL,
		TicketTTL:  cfg.TicketTTL,
		BcryptCost: cfg.BcryptCost,
	})

	hub := server.NewHub(logger)
	games := session.NewManager(session.Options{
		Store:    store,
		Notifier: hub,
		Board:    board,
		Settings: cfg.Game.Settings(),
		Logger:   logger,
	})
	defer games.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:        logger,
		Auth:          authSvc,
		Games:         games,
		Hub:           hub,
		Checks:        checks,
		WSAuthTimeout: cfg.WSAuthTimeout,
		WSPacketRate:  cfg.WSPacketRate,
		WSPacketBurst: cfg.WSPacketBurst,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// openStore connects the configured backend and returns its health checks.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (kv.Store, map[string]health.Checker, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("connected to redis")
		return kv.NewRedisStore(rdb), map[string]health.Checker{
			"redis": health.Redis(rdb),
		}, func() { rdb.Close() }, nil

	default:
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		version, err := migrations.Version(db)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath, "schema_version", version)
		store := kv.NewSQLiteStore(db)
		return store, map[string]health.Checker{
			"sqlite": health.SQL(db),
			"store":  health.Store(store),
		}, func() { db.Close() }, nil
	}
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
