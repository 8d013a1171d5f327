package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/autotts/autotts/internal/api"
	"github.com/autotts/autotts/internal/cache"
	"github.com/autotts/autotts/internal/config"
	"github.com/autotts/autotts/internal/database"
	"github.com/autotts/autotts/internal/langdetect"
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

	// Engines and orchestrator. No engine coming up is fatal: the process
	// could not serve a single request.
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

	// Redis connection (batch queue, optional cache backend)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable", "error", err)
	}
	defer rdb.Close()

	svc := tts.NewService(orch, buildCache(cfg, rdb))

	// Database connection (optional, auditing is disabled without it)
	var db *pgxpool.Pool
	if cfg.Database.URL != "" {
		db, err = database.NewPool(ctx, cfg.Database)
		if err != nil {
			slog.Warn("database unavailable, auditing disabled", "error", err)
		} else {
			defer db.Close()

			if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
				slog.Warn("migrations failed", "error", err)
			}
		}
	}

	router := api.NewRouter(db, rdb, cfg, orch, svc)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "engines", len(orch.Engines()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// buildCache assembles the configured cache backend. A backend that cannot
// come up degrades to a disabled cache rather than blocking startup, since
// the service works without one.
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
