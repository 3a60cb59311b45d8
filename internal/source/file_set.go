package source

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"

	"fortio.org/safecast"
)

// NewFile indexes content under the given source id.
func NewFile(id string, content []byte, flags FileFlags) (*File, error) {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return nil, fmt.Errorf("source %q too large: %w", id, err)
	}
	return &File{
		ID:      id,
		Path:    id,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}, nil
}

// Resolve converts a span into line and column positions.
func (f *File) Resolve(span Span) (start, end LineCol) {
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine returns line lineNum (1-based), or "" when it does not exist.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		return ""
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return ""
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	if lineNum-1 < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}
	if start > lenContent {
		return ""
	}
	return string(f.Content[start:end])
}

// FileSet keeps the latest text of every source id, for rendering
// diagnostics after a run.
type FileSet struct {
	mu    sync.RWMutex
	files map[string]*File
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{files: make(map[string]*File)}
}

// Add stores (or replaces) the text of a source id.
func (fs *FileSet) Add(id string, content []byte, flags FileFlags) (*File, error) {
	f, err := NewFile(id, content, flags)
	if err != nil {
		return nil, err
	}
	fs.mu.Lock()
	fs.files[id] = f
	fs.mu.Unlock()
	return f, nil
}

// AddVirtual adds text that did not come from disk.
func (fs *FileSet) AddVirtual(id, text string) (*File, error) {
	return fs.Add(id, []byte(text), FileVirtual)
}

// Get returns the file stored for id.
func (fs *FileSet) Get(id string) (*File, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	f, ok := fs.files[id]
	return f, ok
}

// IDs returns the known source ids, sorted.
func (fs *FileSet) IDs() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	ids := make([]string, 0, len(fs.files))
	for id := range fs.files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
