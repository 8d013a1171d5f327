package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/autotts/autotts/internal/cache"
	"github.com/autotts/autotts/internal/config"
	"github.com/autotts/autotts/internal/langdetect"
	"github.com/autotts/autotts/internal/queue"
	"github.com/autotts/autotts/internal/queue/workers"
	"github.com/autotts/autotts/internal/tts"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// The worker runs the same synthesis stack as the API so that batch
	// jobs populate the shared result cache.
	var detector tts.Detector
	if cfg.TTS.AutoDetectLanguage {
		detector = langdetect.New(cfg.TTS.DefaultLanguage)
	}

	orch := tts.NewOrchestrator(cfg.TTS, detector, tts.EnginesFromConfig(cfg.Engines))
	if err := orch.Initialize(ctx); err != nil {
		slog.Error("no tts engine available", "error", err)
		os.Exit(1)
	}
	defer orch.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	svc := tts.NewService(orch, buildCache(cfg, rdb))

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	mux := asynq.NewServeMux()

	speechWorker := workers.NewSpeechWorker(svc)
	mux.Handle(queue.TypeSpeechSynthesize, asynq.HandlerFunc(speechWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", cfg.Worker.Concurrency)
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}

func buildCache(cfg *config.Config, rdb *redis.Client) *cache.ResultCache {
	if !cfg.Cache.Enabled {
		return cache.NewResultCache(nil, false)
	}

	if cfg.Cache.Backend == "redis" {
		return cache.NewResultCache(cache.NewRedisBackend(rdb, cfg.Cache.RedisTTL), true)
	}

	backend, err := cache.NewFSBackend(cfg.Cache.Dir, cfg.Cache.Compress)
	if err != nil {
		slog.Warn("cache directory unavailable, caching disabled", "error", err)
		return cache.NewResultCache(nil, false)
	}
	return cache.NewResultCache(backend, true)
}
