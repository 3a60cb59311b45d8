package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"squiggle/internal/cache"
	"squiggle/internal/config"
	"squiggle/internal/linker"
	"squiggle/internal/project"
	"squiggle/internal/source"
	"squiggle/internal/value"
)

const noManifestMessage = "no " + config.FileName + " found\nplease name the entry file explicitly, e.g.:\n  squiggle run path/to/main.squiggle"

// workspace is the resolved input of a command: where sources live and
// which one to start from.
type workspace struct {
	manifest *config.Manifest // nil without a manifest
	linker   *linker.FileLinker
	mainID   string
	mainPath string
	env      value.Env
}

// openWorkspace resolves target, a file, a directory or "" for the
// working directory. Directories must carry a manifest with [run].main.
func openWorkspace(target string) (*workspace, error) {
	if target == "" {
		target = "."
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", target, err)
	}

	startDir := target
	mainPath := ""
	if !info.IsDir() {
		startDir = filepath.Dir(target)
		mainPath = target
	}
	manifest, ok, err := config.LoadManifest(startDir)
	if err != nil {
		return nil, err
	}

	ws := &workspace{env: config.Default().Env()}
	root, ext := startDir, linker.Ext
	if ok {
		ws.manifest = manifest
		ws.env = manifest.Config.Env()
		root = manifest.SourceRoot()
		if e := manifest.Config.Sources.Extension; e != "" {
			ext = e
		}
		if mainPath == "" {
			mainPath = manifest.MainPath()
			if mainPath == "" {
				return nil, fmt.Errorf("%s: [run].main is not set", manifest.Path)
			}
		}
	} else if mainPath == "" {
		return nil, errors.New(noManifestMessage)
	}

	ws.linker = linker.NewFileLinker(root, ext)
	ws.mainPath = mainPath
	ws.mainID, err = ws.linker.IDForFile(mainPath)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// cacheEnabled reports the manifest's [cache].enabled.
func (ws *workspace) cacheEnabled() bool {
	return ws.manifest != nil && ws.manifest.Config.Cache.Enabled
}

// openCache returns the output cache: an in-memory layer over the disk
// cache in [cache].dir or the user cache directory.
func (ws *workspace) openCache() (*cache.Memory, *cache.DiskCache, error) {
	var (
		disk *cache.DiskCache
		err  error
	)
	if ws.manifest != nil && ws.manifest.CacheDir() != "" {
		disk, err = cache.OpenDir(ws.manifest.CacheDir())
	} else {
		disk, err = cache.OpenDiskCache("squiggle")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return cache.NewMemory(64, disk), disk, nil
}

// fileSet snapshots the text of every source known to p, for rendering
// diagnostics.
func fileSet(p *project.Project) *source.FileSet {
	fs := source.NewFileSet()
	for _, id := range p.GetSourceIDs() {
		if text, ok := p.GetSource(id); ok {
			_, _ = fs.AddVirtual(id, text)
		}
	}
	return fs
}

// displayPath shortens path relative to the working directory.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil {
		return rel
	}
	return path
}
