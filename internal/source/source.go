// Package source models a single parsed Rust source file: its location
// within the workspace, its owning Cargo package, and its raw text.
package source

import (
	"fmt"
	"os"

	"github.com/cargomutate/cargomutate/internal/treepath"
)

// PackageName is a shared, immutable package name. Plain string sharing is
// used in place of reference counting: Go values of this type are never
// mutated after construction, and the garbage collector reclaims them once
// the last SourceFile referencing one is gone.
type PackageName = string

// File is an immutable record of one Rust source file: its path relative
// to the workspace root, the Cargo package name that owns it, and its raw
// text.
type File struct {
	TreeRelativePath treepath.Path
	PackageName      PackageName
	Code             string
}

// New reads the file at root.Join(relativePath) and returns an immutable
// File value.
func New(root string, relativePath treepath.Path, packageName PackageName) (*File, error) {
	full, err := relativePath.Within(root)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read source file %s: %w", relativePath, err)
	}
	return &File{
		TreeRelativePath: relativePath,
		PackageName:      packageName,
		Code:             string(data),
	}, nil
}

// TreeRelativeSlashes returns the forward-slash path for display/logging.
func (f *File) TreeRelativeSlashes() string {
	if f == nil {
		return ""
	}
	return f.TreeRelativePath.String()
}
