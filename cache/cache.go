package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
)

const cacheRoot = "cache"

// cachePath returns the cache file for a request key (the URL path).
func cachePath(key string) string {
	hash := xxhash.Sum64String(key)
	return filepath.Join(cacheRoot, fmt.Sprintf("%016x.json", hash))
}

// Write stores a response body for the given key.
func Write(key, body string) error {
	if err := os.MkdirAll(cacheRoot, 0755); err != nil {
		return err
	}
	return os.WriteFile(cachePath(key), []byte(body), 0644)
}

// Read returns the cached body for key if present and not expired.
func Read(key string, maxAge time.Duration) (string, bool) {
	path := cachePath(key)

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}

	if time.Since(info.ModTime()) > maxAge {
		return "", false
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return string(body), true
}

// Clear removes the cache entry for one key.
func Clear(key string) error {
	err := os.Remove(cachePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ClearAll drops the whole cache. Admin writes call this so the public
// catalog never serves stale data after an edit.
func ClearAll() error {
	return os.RemoveAll(cacheRoot)
}
