package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
)

// Cacher stores recognized text keyed by screenshot content. Users retry
// uploads with the same screenshots constantly; a hit skips the tesseract
// process entirely, and single-flight suppression means two in-flight
// requests carrying the same panel run it once.
type Cacher interface {
	GetSet(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), ttl ...time.Duration) ([]byte, error)
	TTL() time.Duration
}

// Cache is the sfcache-backed Cacher. A screenshot's recognized text never
// changes, so the TTL only bounds disk growth, not staleness.
type Cache struct {
	*sfcache.TieredCache[string, []byte]

	ttl time.Duration
}

// NewCache persists recognized text under the user cache directory
// (~/.cache/engageproof), falling back to the temp dir.
func NewCache(ttl time.Duration) (*Cache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return NewCacheWithPath(ttl, filepath.Join(cacheDir, "engageproof"))
}

// NewCacheWithPath persists recognized text at the given directory.
func NewCacheWithPath(ttl time.Duration, cachePath string) (*Cache, error) {
	if err := os.MkdirAll(cachePath, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	persist, err := localfs.New[string, []byte]("engageproof", cachePath)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Cache{TieredCache: tc, ttl: ttl}, nil
}

// NewNullCache keeps the single-flight behavior but persists nothing, for
// deployments where disk reuse is unwanted.
func NewNullCache() *Cache {
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte]())
	if err != nil {
		panic("sfcache.NewTiered with null store: " + err.Error())
	}
	return &Cache{TieredCache: tc, ttl: 0}
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// ImageKey derives the cache key from panel image bytes: a SHA-256 of the
// content, so re-encoded or cropped variants never collide with the
// original upload.
func ImageKey(image []byte) string {
	hash := sha256.Sum256(image)
	return hex.EncodeToString(hash[:])
}
