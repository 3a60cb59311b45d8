// Package config finds and parses squiggle.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"squiggle/internal/value"
)

// FileName is the manifest file looked up from the working directory.
const FileName = "squiggle.toml"

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

type Config struct {
	Package     PackageConfig     `toml:"package"`
	Run         RunConfig         `toml:"run"`
	Sources     SourcesConfig     `toml:"sources"`
	Environment EnvironmentConfig `toml:"environment"`
	Cache       CacheConfig       `toml:"cache"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type RunConfig struct {
	Main string `toml:"main"`
}

type SourcesConfig struct {
	Root      string `toml:"root"`
	Extension string `toml:"extension"`
}

type EnvironmentConfig struct {
	SampleCount   int    `toml:"sample_count"`
	Seed          uint64 `toml:"seed"`
	Profile       bool   `toml:"profile"`
	XYPointLength int    `toml:"xy_point_length"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Manifest is a parsed squiggle.toml and its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used without a manifest.
func Default() Config {
	env := value.DefaultEnv()
	return Config{
		Sources: SourcesConfig{Root: ".", Extension: ".squiggle"},
		Environment: EnvironmentConfig{
			SampleCount:   env.SampleCount,
			Seed:          env.Seed,
			XYPointLength: env.XYPointLength,
		},
	}
}

// FindManifest walks up from startDir to locate squiggle.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the manifest above startDir. ok is false
// when there is none.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// Load parses path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Environment.SampleCount <= 0 {
		return Config{}, fmt.Errorf("%s: [environment].sample_count must be positive", path)
	}
	if ext := cfg.Sources.Extension; ext != "" && !strings.HasPrefix(ext, ".") {
		cfg.Sources.Extension = "." + ext
	}
	return cfg, nil
}

// Env converts the [environment] section.
func (c Config) Env() value.Env {
	return value.Env{
		SampleCount:   c.Environment.SampleCount,
		Seed:          c.Environment.Seed,
		XYPointLength: c.Environment.XYPointLength,
		Profile:       c.Environment.Profile,
	}
}

// SourceRoot returns the absolute directory sources are resolved from.
func (m *Manifest) SourceRoot() string {
	root := m.Config.Sources.Root
	if root == "" {
		root = "."
	}
	if filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(m.Root, filepath.FromSlash(root))
}

// MainPath returns the file named by [run].main, or "" when unset.
func (m *Manifest) MainPath() string {
	main := strings.TrimSpace(m.Config.Run.Main)
	if main == "" {
		return ""
	}
	return filepath.Join(m.SourceRoot(), filepath.FromSlash(main))
}

// CacheDir returns [cache].dir resolved against the manifest directory.
func (m *Manifest) CacheDir() string {
	dir := m.Config.Cache.Dir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}
