package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned by backends when no entry exists for a name.
var ErrNotFound = errors.New("cache: entry not found")

// Backend is a durable name->bytes map with create-if-absent semantics.
// Implementations must treat writes as idempotent: entries are content-
// addressed, so two writers for the same name produce identical bytes.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, payload []byte) (string, error)
}

// ComputeKey derives the fingerprint for a synthesis result from the
// parameters that determine its content. Speed uses a fixed two-decimal
// representation so float formatting can never shift the key.
func ComputeKey(text, voice, model string, speed float64) string {
	data := fmt.Sprintf("%s|%s|%s|%.2f", text, voice, model, speed)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}

// ResultCache stores synthesized audio keyed by fingerprint and format.
// A disabled cache is safe to call: lookups miss and stores do nothing.
// Backend failures are logged and absorbed, never surfaced to the caller.
type ResultCache struct {
	backend Backend
	enabled bool
}

func NewResultCache(backend Backend, enabled bool) *ResultCache {
	if backend == nil {
		enabled = false
	}
	return &ResultCache{backend: backend, enabled: enabled}
}

func (c *ResultCache) Enabled() bool { return c.enabled }

// Lookup returns the stored payload for the fingerprint and format, if any.
// A miss is (nil, false); read errors degrade to a miss.
func (c *ResultCache) Lookup(ctx context.Context, fingerprint, format string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	payload, err := c.backend.Read(ctx, entryName(fingerprint, format))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("cache read failed, treating as miss", "fingerprint", fingerprint, "error", err)
		}
		return nil, false
	}
	return payload, true
}

// Store persists the payload under the fingerprint and format and returns
// the storage location, or "" when disabled or the write failed.
func (c *ResultCache) Store(ctx context.Context, fingerprint, format string, payload []byte) string {
	if !c.enabled {
		return ""
	}

	location, err := c.backend.Write(ctx, entryName(fingerprint, format), payload)
	if err != nil {
		slog.Warn("cache write failed, result not persisted", "fingerprint", fingerprint, "error", err)
		return ""
	}
	return location
}

func entryName(fingerprint, format string) string {
	return fingerprint + "." + format
}
