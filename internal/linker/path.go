package linker

import (
	"errors"
	"fmt"
	"strings"
)

// Ext is the default source file extension.
const Ext = ".squiggle"

var errInvalidPath = errors.New("invalid source path")

// NormalizePath brings a source id to the canonical "a/b" form: the
// extension is dropped, separators become '/', and empty, "." or ".."
// segments are rejected.
func NormalizePath(path, ext string) (string, error) {
	if ext != "" {
		path = strings.TrimSuffix(path, ext)
	}
	path = strings.TrimLeft(path, `/\`)
	if path == "" {
		return "", errInvalidPath
	}
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
	if len(segments) == 0 || strings.Contains(path, "//") || strings.HasSuffix(path, "/") {
		return "", errInvalidPath
	}
	for _, seg := range segments {
		if seg == "." || seg == ".." {
			return "", errInvalidPath
		}
	}
	return strings.Join(segments, "/"), nil
}

// ResolveImportPath resolves an import written in fromID. Names starting
// with "./" or "../" are relative to the importing source's directory,
// all others are relative to the project root.
func ResolveImportPath(fromID, name, ext string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if name == "" {
		return "", errors.New("empty import path")
	}
	segments := strings.Split(name, "/")

	var target []string
	if segments[0] == "." || segments[0] == ".." {
		if parts := strings.Split(fromID, "/"); len(parts) > 1 {
			target = append(target, parts[:len(parts)-1]...)
		}
	}

	for _, seg := range segments {
		switch seg {
		case "":
			return "", fmt.Errorf("import %q has an empty segment", name)
		case ".":
			continue
		case "..":
			if len(target) == 0 {
				return "", fmt.Errorf("import %q escapes the project root", name)
			}
			target = target[:len(target)-1]
		default:
			target = append(target, seg)
		}
	}
	if len(target) == 0 {
		return "", fmt.Errorf("import %q resolves to an empty path", name)
	}
	return NormalizePath(strings.Join(target, "/"), ext)
}
