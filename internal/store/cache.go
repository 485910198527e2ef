package store

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/moby/sys/atomicwriter"
	"go.uber.org/zap"

	"flutterdeploy/internal/source"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Cache remembers the last raw version each store returned, one file per
// store and identifier. It is advisory only: values are shown when a live
// fetch fails and are never compared. Concurrent writers resolve as last
// write wins. A nil *Cache is valid and does nothing.
type Cache struct {
	Dir    string
	Logger *zap.Logger
}

// NewCache returns a cache rooted at dir, or under the system temp dir when
// dir is empty.
func NewCache(dir string, logger *zap.Logger) *Cache {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "fdk-store-cache")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{Dir: dir, Logger: logger}
}

func (c *Cache) path(store source.Source, id string) string {
	key := store.String() + "_" + unsafeKeyChars.ReplaceAllString(id, "_")
	return filepath.Join(c.Dir, key)
}

// Put stores raw for the given store and identifier. Errors are logged and dropped.
func (c *Cache) Put(store source.Source, id, raw string) {
	if c == nil || id == "" {
		return
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		c.Logger.Debug("Store cache unavailable", zap.Error(err))
		return
	}
	if err := atomicwriter.WriteFile(c.path(store, id), []byte(raw+"\n"), 0o644); err != nil {
		c.Logger.Debug("Store cache write failed", zap.Error(err))
	}
}

// Get returns the last cached raw version, if any.
func (c *Cache) Get(store source.Source, id string) (string, bool) {
	if c == nil || id == "" {
		return "", false
	}
	data, err := os.ReadFile(c.path(store, id))
	if err != nil {
		return "", false
	}
	raw := strings.TrimSpace(string(data))
	return raw, raw != ""
}
