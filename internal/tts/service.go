package tts

import (
	"context"
	"log/slog"

	"github.com/autotts/autotts/internal/cache"
)

// Result is the outcome of one synthesis request.
type Result struct {
	Audio    []byte
	Engine   string
	CacheHit bool
}

// Service composes the orchestrator with the result cache: a hit
// short-circuits synthesis entirely, a miss synthesizes and populates the
// cache. Cache failures never fail the request.
type Service struct {
	orch  *Orchestrator
	cache *cache.ResultCache
}

func NewService(orch *Orchestrator, rc *cache.ResultCache) *Service {
	return &Service{orch: orch, cache: rc}
}

func (s *Service) Speak(ctx context.Context, req Request) (*Result, error) {
	fingerprint := cache.ComputeKey(req.Text, req.Voice, req.Model, req.Speed)

	if audio, ok := s.cache.Lookup(ctx, fingerprint, req.Format); ok {
		slog.Debug("serving audio from cache", "fingerprint", fingerprint, "format", req.Format)
		return &Result{Audio: audio, CacheHit: true}, nil
	}

	audio, engine, err := s.orch.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}

	s.cache.Store(ctx, fingerprint, req.Format, audio)
	return &Result{Audio: audio, Engine: engine}, nil
}

func (s *Service) CacheEnabled() bool { return s.cache.Enabled() }
