package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/mitchellh/go-homedir"
)

// DefaultDir is used when no directory is configured
const DefaultDir = "~/.cache/acorn-sports"

type fileEntry[V any] struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
	Value     V         `json:"value"`
}

// FileStore keeps one JSON file per key under a directory.
// Disk failures are logged and treated as misses.
type FileStore[V any] struct {
	dir string
	now func() time.Time
}

// New creates a store under dataDir/namespace. A leading ~ expands to the home
// directory and the directory is created if missing.
func New[V any](dataDir, namespace string) (*FileStore[V], error) {
	if dataDir == "" {
		dataDir = DefaultDir
	}
	expanded, err := homedir.Expand(dataDir)
	if err != nil {
		return nil, fmt.Errorf("expanding data directory: %w", err)
	}
	dir := filepath.Join(expanded, namespace)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore[V]{dir: dir, now: time.Now}, nil
}

// WithClock replaces the store's time source
func (s *FileStore[V]) WithClock(now func() time.Time) *FileStore[V] {
	s.now = now
	return s
}

// Dir returns the directory entries are written to
func (s *FileStore[V]) Dir() string {
	return s.dir
}

func (s *FileStore[V]) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Get reads key if its file exists and has not expired. Expired files are removed.
func (s *FileStore[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	path := s.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("file cache read failed", logger.Fields{"key": key, "error": err.Error()})
		}
		return zero, false
	}

	var e fileEntry[V]
	if err := json.Unmarshal(data, &e); err != nil {
		logger.Warn("file cache entry undecodable", logger.Fields{"key": key, "error": err.Error()})
		return zero, false
	}
	// a hash collision would surface as a different stored key
	if e.Key != key {
		return zero, false
	}
	if !s.now().Before(e.ExpiresAt) {
		_ = os.Remove(path)
		return zero, false
	}
	return e.Value, true
}

// Set writes value for ttl. The file is written to a temp name and renamed so
// readers never see a partial entry.
func (s *FileStore[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	data, err := json.MarshalIndent(fileEntry[V]{Key: key, ExpiresAt: s.now().Add(ttl).UTC(), Value: value}, "", "  ")
	if err != nil {
		logger.Warn("file cache entry unencodable", logger.Fields{"key": key, "error": err.Error()})
		return
	}

	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		logger.Warn("file cache write failed", logger.Fields{"key": key, "error": err.Error()})
		return
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmp.Name())
		logger.Warn("file cache write failed", logger.Fields{"key": key, "error": errors.Join(werr, cerr).Error()})
		return
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		logger.Warn("file cache write failed", logger.Fields{"key": key, "error": err.Error()})
	}
}

// Prune removes expired entries and returns how many were deleted
func (s *FileStore[V]) Prune() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading data directory: %w", err)
	}

	removed := 0
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var e struct {
			ExpiresAt time.Time `json:"expiresAt"`
		}
		if json.Unmarshal(data, &e) != nil || !s.now().Before(e.ExpiresAt) {
			if os.Remove(path) == nil {
				removed++
			}
		}
	}
	return removed, nil
}
