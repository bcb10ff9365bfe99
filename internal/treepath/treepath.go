// Package treepath implements tree-relative path values: paths relative to
// a workspace root, always forward-slash-normalized, that are never
// absolute and never contain "..".
package treepath

import (
	"fmt"
	"path"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Path is a forward-slash-normalized path relative to a workspace root.
//
// The zero-value Path is the empty path, denoting the tree root itself; it
// is what New("") returns and what Parent returns at the root.
type Path struct {
	slashes string
}

// New builds a Path from a possibly-OS-separated relative path. It rejects
// absolute paths and paths that escape the root via "..".
func New(relative string) (Path, error) {
	slashes := toSlash(relative)
	slashes = path.Clean(slashes)
	if slashes == "." {
		slashes = ""
	}
	if strings.HasPrefix(slashes, "/") {
		return Path{}, fmt.Errorf("tree-relative path must not be absolute: %q", relative)
	}
	if slashes == ".." || strings.HasPrefix(slashes, "../") {
		return Path{}, fmt.Errorf("tree-relative path must not escape the root: %q", relative)
	}
	return Path{slashes: slashes}, nil
}

// MustNew is New but panics on error; used for compile-time-known literals
// in tests and internal call sites that have already validated the input.
func MustNew(relative string) Path {
	p, err := New(relative)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string { return p.slashes }

// IsZero reports whether p is the zero value (no path set).
func (p Path) IsZero() bool { return p.slashes == "" }

// Parent returns the path's directory, or the empty Path at the tree root.
func (p Path) Parent() Path {
	dir := path.Dir(p.slashes)
	if dir == "." {
		dir = ""
	}
	return Path{slashes: dir}
}

// Join appends name as a path segment.
func (p Path) Join(name string) Path {
	if p.slashes == "" {
		return Path{slashes: path.Clean(name)}
	}
	return Path{slashes: path.Join(p.slashes, name)}
}

// WithExtension replaces the path's extension (without the leading dot in
// ext) or appends one if the path has none.
func (p Path) WithExtension(ext string) Path {
	trimmed := strings.TrimSuffix(p.slashes, path.Ext(p.slashes))
	if ext == "" {
		return Path{slashes: trimmed}
	}
	return Path{slashes: trimmed + "." + strings.TrimPrefix(ext, ".")}
}

// EndsWith reports whether the path's final segments match suffix, which
// may itself contain multiple "/"-separated segments.
func (p Path) EndsWith(suffix string) bool {
	suffix = strings.Trim(toSlash(suffix), "/")
	if suffix == "" {
		return false
	}
	return p.slashes == suffix || strings.HasSuffix(p.slashes, "/"+suffix)
}

// Within resolves the path against root, guaranteeing the result stays
// inside root even in the presence of symlinks.
func (p Path) Within(root string) (string, error) {
	resolved, err := securejoin.SecureJoin(root, p.slashes)
	if err != nil {
		return "", fmt.Errorf("resolve %q under %q: %w", p.slashes, root, err)
	}
	return resolved, nil
}

// Equal reports whether two tree-relative paths denote the same location.
func (p Path) Equal(other Path) bool { return p.slashes == other.slashes }

func toSlash(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\\", "/"), "//", "/")
}
