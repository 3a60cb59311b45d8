// Package linker resolves import names to source ids and loads source
// text, either from the file system or from memory.
package linker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"

	"squiggle/internal/source"
)

// FileLinker maps source ids to files below Root. The id "lib/math" is
// read from Root/lib/math.squiggle.
type FileLinker struct {
	Root string
	Ext  string
}

func NewFileLinker(root, ext string) *FileLinker {
	if ext == "" {
		ext = Ext
	}
	return &FileLinker{Root: root, Ext: ext}
}

func (l *FileLinker) Resolve(name, fromID string) (string, error) {
	return ResolveImportPath(fromID, name, l.Ext)
}

// IDForFile returns the source id of a file path below Root.
func (l *FileLinker) IDForFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	id, err := NormalizePath(filepath.ToSlash(rel), l.Ext)
	if err != nil {
		return "", fmt.Errorf("%s is outside of %s: %w", path, l.Root, err)
	}
	return id, nil
}

// LoadSource reads the file for id. Text is returned without a BOM, with
// LF line endings and in Unicode NFC.
func (l *FileLinker) LoadSource(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(l.Root, filepath.FromSlash(id)+l.Ext)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", id, err)
	}
	data, _ = source.Normalize(data)
	return norm.NFC.String(string(data)), nil
}
