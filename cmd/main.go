package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"homestock/internal/config"
	"homestock/internal/dialog"
	"homestock/internal/gateway"
	"homestock/internal/gateway/telegram"
	"homestock/internal/jobs"
	"homestock/internal/repositories"
	"homestock/internal/server"
	"homestock/internal/session"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection pool
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repositories.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// Session store: Redis when configured, otherwise in-process.
	var (
		sessions dialog.SessionStore
		rdb      *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("WARNING: Redis ping failed: %v", err)
		}
		sessions = session.NewRedisStore(rdb)
	} else {
		sessions = session.NewMemoryStore()
	}

	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)

	// The adapter and the engine reference each other: events flow from the
	// adapter into the engine, renders flow back out through the adapter.
	var adapter *telegram.Adapter
	engine := dialog.NewEngine(categoryRepo, productRepo, sessions,
		gateway.Func(func(ctx context.Context, owner int64, r gateway.Render) error {
			return adapter.Send(ctx, owner, r)
		}))

	adapter, err = telegram.New(cfg.TelegramToken, engine)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	// Low-stock digest job
	if cfg.DigestHours > 0 {
		digest := jobs.NewDigestService(productRepo, adapter)
		scheduler, err := jobs.NewScheduler(digest, time.Duration(cfg.DigestHours)*time.Hour)
		if err != nil {
			log.Fatalf("Failed to create job scheduler: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// HTTP surface: health probes, webhook receiver in webhook mode.
	e := server.New(pool, rdb, adapter, cfg.WebhookSecret)
	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server: %v", err)
		}
	}()
	defer e.Shutdown(context.Background())

	if cfg.WebhookURL != "" {
		if err := adapter.SetWebhook(cfg.WebhookURL); err != nil {
			log.Fatalf("Failed to register webhook: %v", err)
		}
		log.Printf("HomeStock running in webhook mode on port %d", cfg.Port)
		<-ctx.Done()
		return
	}

	log.Printf("HomeStock running 🚀")
	if err := adapter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Polling stopped: %v", err)
	}
}
