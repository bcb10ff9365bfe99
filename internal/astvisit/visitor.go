// Package astvisit walks a parsed Rust file and discovers mutation sites.
//
// Knowledge of the tree-sitter Rust grammar is localized here, the same way
// upstream cargo-mutants localizes its knowledge of the `syn` crate's API
// to a single visitor module.
package astvisit

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	rustlang "github.com/smacker/go-tree-sitter/rust"

	"github.com/cargomutate/cargomutate/internal/mutate"
	"github.com/cargomutate/cargomutate/internal/source"
	"github.com/cargomutate/cargomutate/internal/treepath"
)

// Result is everything one call to Discover finds in a single file: the
// mutants within it, any further files discovered through `mod`
// statements, and non-fatal warnings (e.g. an unresolved `mod` target).
type Result struct {
	Mutants   []mutate.Mutant
	MoreFiles []treepath.Path
	Warnings  []string
}

var rustLanguage = rustlang.GetLanguage()

// Discover parses src.Code and returns the mutants and further module
// files it finds.
func Discover(src *source.File, root string) (Result, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(rustLanguage)
	code := []byte(src.Code)
	tree, err := parser.ParseCtx(context.Background(), nil, code)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", src.TreeRelativeSlashes(), err)
	}
	if tree == nil {
		return Result{}, fmt.Errorf("tree-sitter returned no tree for %s", src.TreeRelativeSlashes())
	}

	v := &visitor{
		source: src,
		root:   root,
		code:   code,
	}
	v.visitContainer(tree.RootNode(), false)
	return Result{Mutants: v.mutants, MoreFiles: v.moreFiles, Warnings: v.warnings}, nil
}

type visitor struct {
	source         *source.File
	root           string
	code           []byte
	namespaceStack []string
	mutants        []mutate.Mutant
	moreFiles      []treepath.Path
	warnings       []string
}

// visitContainer scans the named children of node (a source_file, a
// declaration_list, or a function body block — tree-sitter-rust puts item
// declarations directly among a block's named children, so nested fn/impl/
// mod items are discovered the same way as top-level ones) and dispatches
// function, impl, and mod items. isMethodContainer is true only while
// directly inside an impl block's body.
func (v *visitor) visitContainer(node *sitter.Node, isMethodContainer bool) {
	if node == nil {
		return
	}
	var pendingAttrs []string
	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "attribute_item", "inner_attribute_item":
			pendingAttrs = append(pendingAttrs, v.text(child))
			continue
		case "line_comment", "block_comment":
			continue
		case "function_item":
			v.visitFunctionItem(child, pendingAttrs, isMethodContainer)
		case "impl_item":
			v.visitImplItem(child, pendingAttrs)
		case "mod_item":
			v.visitModItem(child, pendingAttrs)
		}
		pendingAttrs = nil
	}
}

func (v *visitor) visitFunctionItem(node *sitter.Node, attrs []string, isMethod bool) {
	nameNode := node.ChildByFieldName("name")
	name := mutate.RemoveExcessSpaces(v.text(nameNode))
	if attrsExcluded(attrs) {
		return
	}
	if isMethod && name == "new" {
		return
	}
	body := node.ChildByFieldName("body")
	if body == nil || blockIsEmpty(body) {
		return
	}

	v.inNamespace(name, func() {
		v.collectFunctionMutants(node, body)
		v.visitContainer(body, false)
	})
}

func (v *visitor) collectFunctionMutants(fnNode, body *sitter.Node) {
	returnShape := v.returnShape(fnNode)
	fullName := strings.Join(v.namespaceStack, "::")
	for _, op := range mutate.OpsForReturnType(returnShape) {
		v.mutants = append(v.mutants, mutate.New(
			v.source,
			op,
			fullName,
			returnShape.Text,
			mutate.Span{
				StartByte: body.StartByte(),
				EndByte:   body.EndByte(),
				StartLine: int(body.StartPoint().Row) + 1,
			},
		))
	}
}

func (v *visitor) visitImplItem(node *sitter.Node, attrs []string) {
	if attrsExcluded(attrs) {
		return
	}
	selfType := mutate.RemoveExcessSpaces(v.text(node.ChildByFieldName("type")))
	name := selfType
	if traitNode := node.ChildByFieldName("trait"); traitNode != nil {
		traitIdent := lastSegmentIdent(v.text(traitNode))
		if traitIdent == "Default" {
			return
		}
		name = fmt.Sprintf("<impl %s for %s>", traitIdent, selfType)
	}
	body := node.ChildByFieldName("body")
	v.inNamespace(name, func() {
		v.visitContainer(body, true)
	})
}

func (v *visitor) visitModItem(node *sitter.Node, attrs []string) {
	if attrsExcluded(attrs) {
		return
	}
	nameNode := node.ChildByFieldName("name")
	modName := v.text(nameNode)
	body := node.ChildByFieldName("body")
	if body == nil {
		v.resolveExternalMod(modName, int(node.StartPoint().Row)+1)
	}
	v.inNamespace(modName, func() {
		v.visitContainer(body, false)
	})
}

func (v *visitor) resolveExternalMod(modName string, line int) {
	myPath := v.source.TreeRelativePath
	base := path.Base(myPath.String())
	var dir treepath.Path
	if base == "mod.rs" || base == "lib.rs" || base == "main.rs" {
		dir = myPath.Parent()
	} else {
		dir = myPath.WithExtension("")
	}

	var tried []string
	for _, suffix := range []string{".rs", "/mod.rs"} {
		candidate := dir.Join(modName + suffix)
		full, err := candidate.Within(v.root)
		if err != nil {
			tried = append(tried, candidate.String())
			continue
		}
		if fileExists(full) {
			v.moreFiles = append(v.moreFiles, candidate)
			return
		}
		tried = append(tried, full)
	}
	v.warnings = append(v.warnings, fmt.Sprintf(
		"%s:%d: referent of mod %q not found: tried %v",
		myPath, line, modName, tried,
	))
}

// inNamespace pushes name (excess-space-normalized) onto the namespace
// stack for the duration of f, and pops it symmetrically afterward.
func (v *visitor) inNamespace(name string, f func()) {
	normalized := mutate.RemoveExcessSpaces(name)
	v.namespaceStack = append(v.namespaceStack, normalized)
	f()
	v.namespaceStack = v.namespaceStack[:len(v.namespaceStack)-1]
}

func (v *visitor) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(v.code[node.StartByte():node.EndByte()])
}

// returnShape extracts a mutate.ReturnShape from a function_item's
// optional return_type field.
func (v *visitor) returnShape(fnNode *sitter.Node) mutate.ReturnShape {
	rt := fnNode.ChildByFieldName("return_type")
	if rt == nil {
		return mutate.ReturnShape{Present: false}
	}
	text := mutate.RemoveExcessSpaces(v.text(rt))
	if text == "()" {
		return mutate.ReturnShape{Present: false}
	}
	return mutate.ReturnShape{
		Present:  true,
		Segments: headPathSegments(rt, v.code),
		Text:     text,
	}
}

// headPathSegments returns the `::`-separated identifier segments of a
// type node's head path, ignoring any generic type arguments, or nil if
// the type is not expressed as a simple (optionally generic) path.
func headPathSegments(typeNode *sitter.Node, code []byte) []string {
	head := typeNode
	if typeNode.Type() == "generic_type" {
		if t := typeNode.ChildByFieldName("type"); t != nil {
			head = t
		}
	}
	switch head.Type() {
	case "type_identifier", "scoped_type_identifier", "scoped_identifier", "identifier", "primitive_type":
		text := string(code[head.StartByte():head.EndByte()])
		return pathSegments(text)
	default:
		return nil
	}
}

func pathSegments(text string) []string {
	parts := strings.Split(text, "::")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		segments = append(segments, p)
	}
	return segments
}

// lastSegmentIdent returns the final `::`-separated identifier of a path
// expression, with any trailing generic argument list stripped, e.g.
// "a::b::Trait<T>" -> "Trait".
func lastSegmentIdent(text string) string {
	segments := pathSegments(text)
	if len(segments) == 0 {
		return text
	}
	last := segments[len(segments)-1]
	if idx := strings.IndexByte(last, '<'); idx >= 0 {
		last = last[:idx]
	}
	return strings.TrimSpace(last)
}

func blockIsEmpty(block *sitter.Node) bool {
	return block.NamedChildCount() == 0
}

var (
	cfgTestPattern    = regexp.MustCompile(`^#!?\[\s*cfg\s*\(\s*test\s*\)\s*\]$`)
	testPattern       = regexp.MustCompile(`^#!?\[\s*test\s*\]$`)
	mutantsSkipPhrase = regexp.MustCompile(`mutants\s*::\s*skip`)
)

// attrsExcluded reports whether any attribute marks the node (and
// everything inside it) as excluded from mutation: #[cfg(test)], #[test],
// or #[mutants::skip] — including nested to any depth inside a
// #[cfg_attr(...)] list.
func attrsExcluded(attrs []string) bool {
	for _, attr := range attrs {
		trimmed := strings.TrimSpace(attr)
		if cfgTestPattern.MatchString(trimmed) || testPattern.MatchString(trimmed) {
			return true
		}
		if mutantsSkipPhrase.MatchString(trimmed) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	return statIsFile(path)
}
