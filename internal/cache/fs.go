package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// FSBackend keeps each entry as one file under a flat directory. Writes go
// through a temp file and rename, so readers never observe partial content.
type FSBackend struct {
	dir      string
	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

func NewFSBackend(dir string, compress bool) (*FSBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	b := &FSBackend{dir: dir, compress: compress}

	// The decoder is always present so entries written while compression
	// was on stay readable after it is turned off.
	var err error
	b.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if compress {
		b.encoder, err = zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
	}
	return b, nil
}

func (b *FSBackend) Read(ctx context.Context, name string) ([]byte, error) {
	path := filepath.Join(b.dir, name)

	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	// Entries written while compression was on carry a .zst suffix.
	compressed, zerr := os.ReadFile(path + ".zst")
	if zerr != nil {
		if os.IsNotExist(zerr) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read cache file: %w", zerr)
	}
	data, err = b.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress cache file: %w", err)
	}
	return data, nil
}

func (b *FSBackend) Write(ctx context.Context, name string, payload []byte) (string, error) {
	path := filepath.Join(b.dir, name)
	data := payload

	if b.compress {
		// Only keep the compressed form when it is actually smaller.
		if c := b.encoder.EncodeAll(payload, nil); len(c) < len(payload) {
			path += ".zst"
			data = c
		}
	}

	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("write cache file: %w", err)
	}
	return path, nil
}

func writeFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return closeErr
	}

	return os.Rename(tempPath, path)
}
