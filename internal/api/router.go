package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/autotts/autotts/internal/api/handlers"
	"github.com/autotts/autotts/internal/api/middleware"
	"github.com/autotts/autotts/internal/audit"
	"github.com/autotts/autotts/internal/config"
	"github.com/autotts/autotts/internal/queue"
	"github.com/autotts/autotts/internal/tts"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	orch  *tts.Orchestrator
	svc   *tts.Service
}

// NewRouter takes the already initialized synthesis stack. Engine setup is
// startup-fatal and owned by main, not the HTTP layer.
func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, orch *tts.Orchestrator, svc *tts.Service) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		orch:  orch,
		svc:   svc,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.orch, rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	auditSvc := audit.NewService(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)

	speechH := handlers.NewSpeechHandler(rt.svc, auditSvc, rt.cfg.TTS)
	batchH := handlers.NewBatchHandler(queueClient, rt.cfg.TTS)
	catalogH := handlers.NewCatalogHandler(rt.orch, rt.svc, rt.cfg.TTS)
	adminH := handlers.NewAdminHandler(auditSvc)

	// API v1 (OpenAI-compatible surface)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(rt.cfg.Auth.APIKeys))

		r.Route("/audio", func(r chi.Router) {
			r.Post("/speech", speechH.Speak)
			r.Post("/batch", batchH.Enqueue)
		})

		r.Get("/models", catalogH.Models)
		r.Get("/voices", catalogH.Voices)
		r.Get("/languages", catalogH.Languages)
		r.Get("/info", catalogH.Info)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/usage", adminH.Usage)
			r.Get("/logs", adminH.Logs)
		})
	})

	return r
}
