package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Chiemezuo/priority-soft-interview/internal/app"
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/items"
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/memstore"
	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/suppliers"
	"github.com/Chiemezuo/priority-soft-interview/internal/observability"
	"github.com/Chiemezuo/priority-soft-interview/internal/platform/cache"
	"github.com/Chiemezuo/priority-soft-interview/internal/platform/db"
	"github.com/Chiemezuo/priority-soft-interview/internal/shared"
)

type storage struct {
	suppliers suppliers.Repository
	items     items.Repository
	pinger    app.Pinger
	close     func()
}

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	flag.Parse()

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	if *migrateOnly {
		if err := db.Migrate(cfg.PGDSN); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied")
		return
	}

	metrics := observability.NewMetrics()

	store, err := openStorage(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("open storage", slog.Any("error", err), slog.String("store", cfg.Store))
		os.Exit(1)
	}
	defer store.close()

	var idempotency *shared.IdempotencyStore
	if cfg.RedisAddr != "" {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, idempotency disabled", slog.Any("error", err))
		} else {
			defer func(c *redis.Client) {
				if err := c.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}(redisClient)
			idempotency = shared.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
		}
	}

	supplierHandler := suppliers.NewHandler(logger, suppliers.NewService(store.suppliers))
	itemHandler := items.NewHandler(logger, items.NewService(store.items, items.ServiceConfig{}))

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SupplierHandler: supplierHandler,
		ItemHandler:     itemHandler,
		Idempotency:     idempotency,
		Storage:         store.pinger,
		Metrics:         metrics,
		AccessLog:       true,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("store", cfg.Store))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}

func openStorage(ctx context.Context, cfg *app.Config, logger *slog.Logger, metrics *observability.Metrics) (*storage, error) {
	if cfg.Store == app.StoreMemory {
		logger.Warn("using in-memory store, data is lost on exit")
		mem := memstore.New()
		return &storage{suppliers: mem.Suppliers(), items: mem.Items(), pinger: mem, close: func() {}}, nil
	}

	if cfg.PGMigrate {
		if err := db.Migrate(cfg.PGDSN); err != nil {
			return nil, err
		}
		logger.Info("migrations applied")
	}

	pool, err := db.New(ctx, db.PoolConfig{
		DSN:             cfg.PGDSN,
		MaxConns:        cfg.PGMaxConns,
		MinConns:        cfg.PGMinConns,
		MaxConnLifetime: cfg.PGMaxConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	if err := db.RegisterPoolMetrics(metrics.Registerer(), pool); err != nil {
		logger.Warn("pool metrics", slog.Any("error", err))
	}
	return &storage{
		suppliers: suppliers.NewRepository(pool),
		items:     items.NewRepository(pool),
		pinger:    pool,
		close:     pool.Close,
	}, nil
}
