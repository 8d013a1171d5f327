package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/autotts/autotts/internal/queue"
	"github.com/autotts/autotts/internal/tts"
)

// SpeechWorker runs queued synthesis requests through the same service the
// API uses, so batch jobs land in the shared result cache.
type SpeechWorker struct {
	svc *tts.Service
}

func NewSpeechWorker(svc *tts.Service) *SpeechWorker {
	return &SpeechWorker{svc: svc}
}

func (w *SpeechWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.SpeechSynthesizePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	slog.Info("processing speech task",
		"request_id", payload.RequestID,
		"voice", payload.Voice,
		"format", payload.Format,
	)

	result, err := w.svc.Speak(ctx, tts.Request{
		Text:     payload.Text,
		Voice:    payload.Voice,
		Language: payload.Language,
		Model:    payload.Model,
		Speed:    payload.Speed,
		Format:   payload.Format,
	})
	if err != nil {
		return fmt.Errorf("synthesize %s: %w", payload.RequestID, err)
	}

	slog.Info("speech task done",
		"request_id", payload.RequestID,
		"engine", result.Engine,
		"cache_hit", result.CacheHit,
		"bytes", len(result.Audio),
	)
	return nil
}
