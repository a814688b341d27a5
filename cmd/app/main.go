package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canteenq/api"
	"canteenq/config"
	"canteenq/internal/assistant"
	"canteenq/internal/bootstrap"
	"canteenq/internal/cache"
	"canteenq/internal/display"
	"canteenq/internal/kafka"
	"canteenq/internal/queue"
	"canteenq/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	rdb := cache.NewClient(cfg.Redis)
	defer rdb.Close()

	adapter := store.NewAdapter(pool, rdb)
	if err := adapter.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	if err := adapter.SeedMenu(ctx); err != nil {
		log.Fatalf("seed menu: %v", err)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	engine := queue.NewEngine(
		adapter,
		producer,
		cfg.Kafka.TokenEventsTopic,
		time.Duration(cfg.Queue.SweepIntervalSeconds)*time.Second,
		time.Duration(cfg.Queue.ReadyExpiryMinutes)*time.Minute,
		queue.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	if err := engine.Start(ctx); err != nil {
		log.Fatalf("start queue engine: %v", err)
	}
	defer engine.Close()
	go engine.Run(ctx)

	sessions := cache.NewSessionTracker(rdb, time.Duration(cfg.Queue.SessionTTLMinutes)*time.Minute)
	gateway := assistant.NewClient(cfg.Assistant)
	counter := display.NewCounter()

	router := api.NewRouter(engine, gateway, sessions, counter, cfg.Queue)
	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
