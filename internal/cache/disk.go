// Package cache stores serialisable run outputs between processes.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"squiggle/internal/project"
	"squiggle/internal/value"
)

// Current schema version - increment when diskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache keeps output snapshots on disk, one file per run digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type diskPayload struct {
	Schema           uint16
	Result           []byte
	Bindings         []byte
	HasEndExpression bool
}

// OpenDiskCache opens the cache of app under $XDG_CACHE_HOME (or
// ~/.cache).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir opens a cache rooted at dir, creating it if needed.
func OpenDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "outputs", hexKey[:2], hexKey+".mp")
}

// Store writes snap under key, replacing the file atomically.
func (c *DiskCache) Store(key project.Digest, snap project.Snapshot) error {
	if c == nil {
		return nil
	}
	result, err := value.Marshal(snap.Result)
	if err != nil {
		return err
	}
	bindings, err := value.Marshal(snap.Bindings)
	if err != nil {
		return err
	}
	payload := diskPayload{
		Schema:           diskCacheSchemaVersion,
		Result:           result,
		Bindings:         bindings,
		HasEndExpression: snap.HasEndExpression,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// gone after a successful rename
		_ = os.Remove(tmp)
	}()

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Load reads the snapshot stored under key. Entries written by another
// schema version are reported as misses.
func (c *DiskCache) Load(key project.Digest) (project.Snapshot, bool, error) {
	if c == nil {
		return project.Snapshot{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return project.Snapshot{}, false, nil
		}
		return project.Snapshot{}, false, err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return project.Snapshot{}, false, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return project.Snapshot{}, false, nil
	}
	result, err := value.Unmarshal(payload.Result)
	if err != nil {
		return project.Snapshot{}, false, err
	}
	bindings, err := value.Unmarshal(payload.Bindings)
	if err != nil {
		return project.Snapshot{}, false, err
	}
	dict, ok := bindings.(value.Dict)
	if !ok {
		return project.Snapshot{}, false, fmt.Errorf("cached bindings are a %s", bindings.Kind())
	}
	return project.Snapshot{Result: result, Bindings: dict, HasEndExpression: payload.HasEndExpression}, true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
