// Package mutate defines the mutation-operator catalog: the closed set of
// MutationOp values, the return-type-to-operator mapping, and the Mutant
// value type that the AST visitor emits.
package mutate

import "fmt"

// MutationOp is one of the closed set of mutation operators.
type MutationOp int

const (
	// Unit replaces the function body with `()`.
	Unit MutationOp = iota
	// Default replaces the function body with the return type's default value.
	Default
	// True replaces a bool-returning body with `true`.
	True
	// False replaces a bool-returning body with `false`.
	False
	// EmptyString replaces a String-returning body with an empty string.
	EmptyString
	// Xyzzy replaces a String-returning body with the literal token "xyzzy".
	Xyzzy
	// OkDefault wraps the default of T for a Result<T, _>-returning body.
	OkDefault
)

func (op MutationOp) String() string {
	switch op {
	case Unit:
		return "unit"
	case Default:
		return "default"
	case True:
		return "true"
	case False:
		return "false"
	case EmptyString:
		return "empty string"
	case Xyzzy:
		return "xyzzy"
	case OkDefault:
		return "ok default"
	default:
		return fmt.Sprintf("mutation-op(%d)", int(op))
	}
}

// ReplacementText renders the literal Rust expression this op substitutes
// for a function body, given the function's normalized return-type text
// (e.g. "Option<Self::Item>", "" for no return type).
func (op MutationOp) ReplacementText(returnTypeText string) string {
	switch op {
	case Unit:
		return "()"
	case Default:
		return "Default::default()"
	case True:
		return "true"
	case False:
		return "false"
	case EmptyString:
		return `String::new()`
	case Xyzzy:
		return `"xyzzy".into()`
	case OkDefault:
		return "Ok(Default::default())"
	default:
		return "Default::default()"
	}
}

// ReturnShape is a minimal, visitor-supplied description of a function's
// return type, sufficient to pick mutation operators without coupling this
// package to any particular parser's AST node types.
type ReturnShape struct {
	// Present is false for `-> ()` or an absent return type.
	Present bool
	// Segments holds the `::`-separated identifier segments of the type's
	// head path, e.g. ["bool"], ["String"], ["std", "io", "Result"]. It is
	// nil when the type is not expressed as a simple (optionally generic)
	// path — a tuple, reference, array, or trait-object type, for example.
	Segments []string
	// Text is the normalized textual rendering of the full return type as
	// it appears after "->", e.g. "Option<Self::Item>".
	Text string
}

// OpsForReturnType implements the return-shape to mutation-operator mapping
// from the spec: the final path segment alone decides Result detection,
// and type arguments are never inspected. Whether this should instead match
// any path ending in "Result" (not only the exact final segment) is an
// open question in the original tool and is intentionally left unresolved
// here — the same TODO applies to this port.
func OpsForReturnType(rt ReturnShape) []MutationOp {
	if !rt.Present {
		return []MutationOp{Unit}
	}
	if len(rt.Segments) == 1 && rt.Segments[0] == "bool" {
		return []MutationOp{True, False}
	}
	if len(rt.Segments) == 1 && rt.Segments[0] == "String" {
		return []MutationOp{EmptyString, Xyzzy}
	}
	if n := len(rt.Segments); n > 0 && rt.Segments[n-1] == "Result" {
		return []MutationOp{OkDefault}
	}
	return []MutationOp{Default}
}
