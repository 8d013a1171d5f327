package workers_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autotts/autotts/internal/cache"
	"github.com/autotts/autotts/internal/config"
	"github.com/autotts/autotts/internal/queue"
	"github.com/autotts/autotts/internal/queue/workers"
	"github.com/autotts/autotts/internal/tts"
)

type stubEngine struct {
	audio []byte
	calls int
}

func (e *stubEngine) Name() string                         { return "stub" }
func (e *stubEngine) Initialize(ctx context.Context) error { return nil }

func (e *stubEngine) Synthesize(ctx context.Context, in tts.SynthesisInput) ([]byte, error) {
	e.calls++
	return e.audio, nil
}

func (e *stubEngine) Voices() []tts.Voice                    { return nil }
func (e *stubEngine) Languages() []string                    { return []string{"en"} }
func (e *stubEngine) Formats() []string                      { return []string{"mp3"} }
func (e *stubEngine) Quality(language, voice string) float64 { return 0.9 }
func (e *stubEngine) Close() error                           { return nil }

func newWorker(t *testing.T, engine tts.Engine) (*workers.SpeechWorker, *cache.ResultCache) {
	t.Helper()

	orch := tts.NewOrchestrator(config.TTSConfig{DefaultLanguage: "en"}, nil, []tts.Engine{engine})
	require.NoError(t, orch.Initialize(context.Background()))

	backend, err := cache.NewFSBackend(t.TempDir(), false)
	require.NoError(t, err)
	rc := cache.NewResultCache(backend, true)

	return workers.NewSpeechWorker(tts.NewService(orch, rc)), rc
}

func TestProcessTaskWarmsCache(t *testing.T) {
	t.Parallel()

	engine := &stubEngine{audio: []byte("synthesized audio")}
	worker, rc := newWorker(t, engine)

	payload, err := json.Marshal(queue.SpeechSynthesizePayload{
		RequestID: "req-1",
		Text:      "Hello world",
		Voice:     "alloy",
		Model:     "tts-1",
		Speed:     1.0,
		Format:    "mp3",
	})
	require.NoError(t, err)

	task := asynq.NewTask(queue.TypeSpeechSynthesize, payload)
	require.NoError(t, worker.ProcessTask(context.Background(), task))

	key := cache.ComputeKey("Hello world", "alloy", "tts-1", 1.0)
	stored, ok := rc.Lookup(context.Background(), key, "mp3")
	require.True(t, ok)
	assert.Equal(t, []byte("synthesized audio"), stored)
	assert.Equal(t, 1, engine.calls)
}

func TestProcessTaskRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	worker, _ := newWorker(t, &stubEngine{audio: []byte("audio")})

	task := asynq.NewTask(queue.TypeSpeechSynthesize, []byte("not json"))
	err := worker.ProcessTask(context.Background(), task)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal payload")
}
