package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trip-linker/internal/bootstrap"
	"github.com/trip-linker/internal/config"
	"github.com/trip-linker/internal/pkg/logger"
	"github.com/trip-linker/internal/repository/cache"
	redisRepo "github.com/trip-linker/internal/repository/redis"
	"github.com/trip-linker/internal/worker"
	"github.com/trip-linker/internal/worker/linking"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Trip Link Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.MaxBatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("amap_min_interval", cfg.Amap.MinCallInterval),
		zap.String("default_city", cfg.Linker.DefaultCity))

	if cfg.Amap.APIKey == "" {
		log.Fatal("AMAP_API_KEY is not set")
	}

	// 3. Connect to Redis (streams, shared place cache)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	var sharedCache *cache.Redis
	if cfg.Redis.Enabled {
		sharedCache = redisClient
	}

	// 4. Initialize linking engine
	tripLinker := bootstrap.NewTripLinker(cfg, sharedCache, log)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	// 5. Initialize workers
	linkWorker := linking.NewTripLinkWorker(
		streamRepo,
		tripLinker,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxBatchSize,
		cfg.Worker.MaxRetries,
		log,
	)

	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	workerManager.Register(linkWorker)

	// 6. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	failed := false
	select {
	case <-sigChan:
		log.Info("Received shutdown signal")
	case err := <-workerManager.Failed():
		log.Error("Worker terminated", zap.Error(err))
		failed = true
	}

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
	if failed {
		_ = log.Sync()
		os.Exit(1)
	}
}
