package mutate

import (
	"fmt"

	"github.com/cargomutate/cargomutate/internal/source"
)

// Span identifies the byte range of a function body's brace-delimited
// block, plus the line number for display. It is a plain value type,
// deliberately decoupled from any particular parser's span representation.
type Span struct {
	StartByte uint32
	EndByte   uint32
	StartLine int
}

// Mutant is a single textual substitution: a function body, identified by
// name and location, and a mutation operator to apply to it.
type Mutant struct {
	SourceFile       *source.File
	Op               MutationOp
	FullFunctionName string
	ReturnTypeText   string
	Location         Span
}

// New constructs a Mutant.
func New(sourceFile *source.File, op MutationOp, fullFunctionName, returnTypeText string, location Span) Mutant {
	return Mutant{
		SourceFile:       sourceFile,
		Op:               op,
		FullFunctionName: fullFunctionName,
		ReturnTypeText:   returnTypeText,
		Location:         location,
	}
}

// String renders the mutant's display name, the form used for
// --examine-re/--exclude-re matching: "<file>:<line>: replace <full-name> -> <return-type> with <replacement>".
func (m Mutant) String() string {
	path := ""
	if m.SourceFile != nil {
		path = m.SourceFile.TreeRelativeSlashes()
	}
	return fmt.Sprintf("%s:%d: replace %s%s with %s", path, m.Location.StartLine, m.FullFunctionName, m.returnTypeSuffix(), m.ReplacementText())
}

func (m Mutant) returnTypeSuffix() string {
	if m.ReturnTypeText == "" {
		return ""
	}
	return " -> " + m.ReturnTypeText
}

// ReplacementText is the literal Rust expression spliced in for this
// mutant's op and return type.
func (m Mutant) ReplacementText() string {
	return m.Op.ReplacementText(m.ReturnTypeText)
}

// Equal reports whether two mutants are identical: same source file
// (compared by tree-relative path, since SourceFile is an immutable value
// shared by reference), same op, same function name, same return type text,
// and same location.
func (m Mutant) Equal(other Mutant) bool {
	samePath := m.SourceFile == nil && other.SourceFile == nil
	if m.SourceFile != nil && other.SourceFile != nil {
		samePath = m.SourceFile.TreeRelativePath.Equal(other.SourceFile.TreeRelativePath)
	}
	return samePath &&
		m.Op == other.Op &&
		m.FullFunctionName == other.FullFunctionName &&
		m.ReturnTypeText == other.ReturnTypeText &&
		m.Location == other.Location
}

// DiffRenderer renders a textual diff for a mutant. Full diff rendering is
// an out-of-scope external collaborator per the spec; DefaultDiffRenderer
// provides a minimal, dependency-free stand-in since no diff-rendering
// library appears anywhere in the retrieved example pack.
type DiffRenderer interface {
	Render(m Mutant) string
}

// defaultDiffRenderer is the built-in DiffRenderer: a unified-diff-shaped
// rendering of "replace the body with the replacement expression" around
// the mutant's recorded line.
type defaultDiffRenderer struct{}

// DefaultDiffRenderer is the package's built-in DiffRenderer.
var DefaultDiffRenderer DiffRenderer = defaultDiffRenderer{}

func (defaultDiffRenderer) Render(m Mutant) string {
	path := ""
	if m.SourceFile != nil {
		path = m.SourceFile.TreeRelativeSlashes()
	}
	return fmt.Sprintf(
		"--- %s\n+++ %s\n@@ -%d +%d @@\n-    { ...original body... }\n+    { %s }\n",
		path, path, m.Location.StartLine, m.Location.StartLine, m.ReplacementText(),
	)
}
