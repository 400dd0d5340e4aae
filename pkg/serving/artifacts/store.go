// Package artifacts resolves fitted model files for the services: a local
// file first, then the shared cache, then a one-shot remote download that is
// written back to disk.
package artifacts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/healthsense/predictor/pkg/common/logger"
)

const (
	OriginLocal  = "local"
	OriginCache  = "cache"
	OriginRemote = "remote"
)

var ErrChecksumMismatch = errors.New("artifact checksum mismatch")

// Source says where an artifact lives.
type Source struct {
	Name   string
	Path   string
	URL    string
	SHA256 string
}

// Loaded describes a resolved artifact. It never carries request data.
type Loaded struct {
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Type     string    `json:"type"`
	Version  string    `json:"version,omitempty"`
	Path     string    `json:"path"`
	Origin   string    `json:"origin"`
	SHA256   string    `json:"sha256"`
	Size     int       `json:"size_bytes"`
	LoadedAt time.Time `json:"loaded_at"`
}

type Store struct {
	client   *resty.Client
	cache    Cache
	cacheTTL time.Duration
}

// NewStore accepts a nil client (no remote fetches) and a nil cache.
func NewStore(client *resty.Client, cache Cache, cacheTTL time.Duration) *Store {
	return &Store{client: client, cache: cache, cacheTTL: cacheTTL}
}

// Fetch returns the artifact bytes. It does not retry.
func (s *Store) Fetch(ctx context.Context, src Source) ([]byte, Loaded, error) {
	info := Loaded{Name: src.Name, Path: src.Path}

	data, err := os.ReadFile(filepath.Clean(src.Path))
	switch {
	case err == nil:
		info.Origin = OriginLocal
	case errors.Is(err, os.ErrNotExist) && src.URL != "":
		data, info.Origin, err = s.fetchRemote(ctx, src)
		if err != nil {
			return nil, Loaded{}, err
		}
	default:
		return nil, Loaded{}, fmt.Errorf("reading artifact %s: %w", src.Name, err)
	}

	if err := verify(src, data); err != nil {
		return nil, Loaded{}, err
	}

	if info.Origin != OriginLocal {
		if err := writeFile(src.Path, data); err != nil {
			return nil, Loaded{}, fmt.Errorf("caching artifact %s to disk: %w", src.Name, err)
		}
	}

	info.SHA256 = checksum(data)
	info.Size = len(data)
	info.LoadedAt = time.Now().UTC()
	return data, info, nil
}

func (s *Store) fetchRemote(ctx context.Context, src Source) ([]byte, string, error) {
	key := cacheKey(src)
	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		if err == nil {
			logger.Log.WithField("artifact", src.Name).Info("Artifact served from shared cache")
			return data, OriginCache, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.Log.WithError(err).WithField("artifact", src.Name).Warn("Artifact cache unavailable")
		}
	}

	if s.client == nil {
		return nil, "", fmt.Errorf("artifact %s missing locally and remote fetch disabled", src.Name)
	}

	logger.Log.WithFields(map[string]interface{}{
		"artifact": src.Name,
		"url":      src.URL,
		"path":     src.Path,
	}).Info("Downloading artifact")

	resp, err := s.client.R().SetContext(ctx).Get(src.URL)
	if err != nil {
		return nil, "", fmt.Errorf("downloading artifact %s: %w", src.Name, err)
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("downloading artifact %s: status %d", src.Name, resp.StatusCode())
	}
	data := resp.Body()
	if len(data) == 0 {
		return nil, "", fmt.Errorf("downloading artifact %s: empty body", src.Name)
	}
	if err := verify(src, data); err != nil {
		return nil, "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			logger.Log.WithError(err).WithField("artifact", src.Name).Warn("Failed to populate artifact cache")
		}
	}
	return data, OriginRemote, nil
}

// cacheKey prefers the pinned checksum so a changed artifact never reuses
// stale cached bytes.
func cacheKey(src Source) string {
	if src.SHA256 != "" {
		return strings.ToLower(src.SHA256)
	}
	return src.Name + ":" + checksum([]byte(src.URL))
}

func verify(src Source, data []byte) error {
	if src.SHA256 == "" {
		return nil
	}
	if sum := checksum(data); !strings.EqualFold(sum, src.SHA256) {
		return fmt.Errorf("%s: got %s, want %s: %w", src.Name, sum, src.SHA256, ErrChecksumMismatch)
	}
	return nil
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// writeFile writes via a temp file so a crash never leaves a partial artifact.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
