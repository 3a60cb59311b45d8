package linker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// MapLinker serves sources from memory; import names are ids as written.
type MapLinker struct {
	mu      sync.RWMutex
	sources map[string]string
	fail    map[string]error
	loads   atomic.Int64
}

func NewMapLinker(sources map[string]string) *MapLinker {
	m := &MapLinker{sources: make(map[string]string, len(sources)), fail: map[string]error{}}
	for id, text := range sources {
		m.sources[id] = text
	}
	return m
}

func (m *MapLinker) Resolve(name, _ string) (string, error) {
	return name, nil
}

func (m *MapLinker) LoadSource(ctx context.Context, id string) (string, error) {
	m.loads.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.fail[id]; ok {
		return "", err
	}
	text, ok := m.sources[id]
	if !ok {
		return "", fmt.Errorf("source %q: %w", id, os.ErrNotExist)
	}
	return text, nil
}

// Set adds or replaces a source.
func (m *MapLinker) Set(id, text string) {
	m.mu.Lock()
	m.sources[id] = text
	m.mu.Unlock()
}

// Fail makes loads of id return err until cleared with a nil err.
func (m *MapLinker) Fail(id string, err error) {
	m.mu.Lock()
	if err == nil {
		delete(m.fail, id)
	} else {
		m.fail[id] = err
	}
	m.mu.Unlock()
}

// Loads reports how many times LoadSource was called.
func (m *MapLinker) Loads() int64 {
	return m.loads.Load()
}
