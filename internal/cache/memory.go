package cache

import (
	"sync"

	"squiggle/internal/project"
)

// Memory is a per-process snapshot cache, optionally backed by another
// cache that is consulted on misses and written through on stores.
type Memory struct {
	mu      sync.RWMutex
	entries map[project.Digest]project.Snapshot
	next    project.OutputCache
}

// NewMemory creates a Memory with the given capacity hint. next may be nil.
func NewMemory(capHint int, next project.OutputCache) *Memory {
	return &Memory{entries: make(map[project.Digest]project.Snapshot, capHint), next: next}
}

func (c *Memory) Load(key project.Digest) (project.Snapshot, bool, error) {
	c.mu.RLock()
	snap, ok := c.entries[key]
	c.mu.RUnlock()
	if ok || c.next == nil {
		return snap, ok, nil
	}
	snap, ok, err := c.next.Load(key)
	if err != nil || !ok {
		return project.Snapshot{}, false, err
	}
	c.mu.Lock()
	c.entries[key] = snap
	c.mu.Unlock()
	return snap, true, nil
}

func (c *Memory) Store(key project.Digest, snap project.Snapshot) error {
	c.mu.Lock()
	c.entries[key] = snap
	c.mu.Unlock()
	if c.next != nil {
		return c.next.Store(key, snap)
	}
	return nil
}

// Len reports the number of entries held in memory.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
