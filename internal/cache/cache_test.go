package cache_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autotts/autotts/internal/cache"
)

var errBackendDown = errors.New("backend down")

type failingBackend struct{}

func (failingBackend) Read(ctx context.Context, name string) ([]byte, error) {
	return nil, errBackendDown
}

func (failingBackend) Write(ctx context.Context, name string, payload []byte) (string, error) {
	return "", errBackendDown
}

func newFSCache(t *testing.T, compress bool) (*cache.ResultCache, string) {
	t.Helper()

	dir := t.TempDir()
	backend, err := cache.NewFSBackend(dir, compress)
	require.NoError(t, err)

	return cache.NewResultCache(backend, true), dir
}

func TestComputeKeyDeterministic(t *testing.T) {
	t.Parallel()

	first := cache.ComputeKey("Hello world", "alloy", "tts-1", 1.0)
	second := cache.ComputeKey("Hello world", "alloy", "tts-1", 1.0)

	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestComputeKeySensitiveToEveryParameter(t *testing.T) {
	t.Parallel()

	base := cache.ComputeKey("Hello world", "alloy", "tts-1", 1.0)

	variants := map[string]string{
		"text":  cache.ComputeKey("Goodbye world", "alloy", "tts-1", 1.0),
		"voice": cache.ComputeKey("Hello world", "nova", "tts-1", 1.0),
		"model": cache.ComputeKey("Hello world", "alloy", "tts-1-hd", 1.0),
		"speed": cache.ComputeKey("Hello world", "alloy", "tts-1", 1.5),
	}

	for param, key := range variants {
		assert.NotEqual(t, base, key, "changing %s must change the key", param)
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	t.Parallel()

	rc, dir := newFSCache(t, false)
	ctx := context.Background()
	payload := []byte("fake audio bytes")

	key := cache.ComputeKey("Hello world", "alloy", "tts-1", 1.0)
	location := rc.Store(ctx, key, "mp3", payload)

	require.NotEmpty(t, location)
	assert.Equal(t, filepath.Join(dir, key+".mp3"), location)

	got, ok := rc.Lookup(ctx, key, "mp3")
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestResultCacheMissIsNotAnError(t *testing.T) {
	t.Parallel()

	rc, _ := newFSCache(t, false)

	got, ok := rc.Lookup(context.Background(), "0123456789abcdef0123456789abcdef", "mp3")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestResultCacheFormatIsPartOfTheEntry(t *testing.T) {
	t.Parallel()

	rc, _ := newFSCache(t, false)
	ctx := context.Background()
	key := cache.ComputeKey("Hello world", "alloy", "tts-1", 1.0)

	rc.Store(ctx, key, "mp3", []byte("mp3 bytes"))

	_, ok := rc.Lookup(ctx, key, "wav")
	assert.False(t, ok, "a different format must miss")
}

func TestResultCacheStoreIsIdempotent(t *testing.T) {
	t.Parallel()

	rc, _ := newFSCache(t, false)
	ctx := context.Background()
	key := cache.ComputeKey("Hello world", "alloy", "tts-1", 1.0)
	payload := []byte("fake audio bytes")

	first := rc.Store(ctx, key, "mp3", payload)
	second := rc.Store(ctx, key, "mp3", payload)
	assert.Equal(t, first, second)

	got, ok := rc.Lookup(ctx, key, "mp3")
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestResultCacheDisabled(t *testing.T) {
	t.Parallel()

	backend, err := cache.NewFSBackend(t.TempDir(), false)
	require.NoError(t, err)
	rc := cache.NewResultCache(backend, false)

	ctx := context.Background()
	key := cache.ComputeKey("Hello world", "alloy", "tts-1", 1.0)

	assert.Empty(t, rc.Store(ctx, key, "mp3", []byte("fake audio bytes")))

	_, ok := rc.Lookup(ctx, key, "mp3")
	assert.False(t, ok)
	assert.False(t, rc.Enabled())
}

func TestResultCacheAbsorbsBackendFailures(t *testing.T) {
	t.Parallel()

	rc := cache.NewResultCache(failingBackend{}, true)
	ctx := context.Background()
	key := cache.ComputeKey("Hello world", "alloy", "tts-1", 1.0)

	assert.Empty(t, rc.Store(ctx, key, "mp3", []byte("fake audio bytes")))

	got, ok := rc.Lookup(ctx, key, "mp3")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestFSBackendCompression(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	compressed, err := cache.NewFSBackend(dir, true)
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte(strings.Repeat("compressible audio frame ", 200))

	location, err := compressed.Write(ctx, "abc123.wav", payload)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(location, ".zst"))

	info, err := os.Stat(location)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(len(payload)))

	got, err := compressed.Read(ctx, "abc123.wav")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// A backend with compression off still reads compressed entries.
	plain, err := cache.NewFSBackend(dir, false)
	require.NoError(t, err)

	got, err = plain.Read(ctx, "abc123.wav")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFSBackendReadMissingEntry(t *testing.T) {
	t.Parallel()

	backend, err := cache.NewFSBackend(t.TempDir(), false)
	require.NoError(t, err)

	_, err = backend.Read(context.Background(), "missing.mp3")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
