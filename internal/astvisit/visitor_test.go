package astvisit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cargomutate/cargomutate/internal/mutate"
	"github.com/cargomutate/cargomutate/internal/source"
	"github.com/cargomutate/cargomutate/internal/treepath"
	"github.com/stretchr/testify/require"
)

func fileOf(t *testing.T, root, relative, code string) *source.File {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relative))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(code), 0o644))
	return &source.File{
		TreeRelativePath: treepath.MustNew(relative),
		PackageName:      "demo",
		Code:             code,
	}
}

func opsOf(mutants []mutate.Mutant) []mutate.MutationOp {
	ops := make([]mutate.MutationOp, len(mutants))
	for i, m := range mutants {
		ops[i] = m.Op
	}
	return ops
}

func TestDiscoverFreeFunctionBoolReturn(t *testing.T) {
	root := t.TempDir()
	src := fileOf(t, root, "src/lib.rs", "fn enabled() -> bool {\n    true\n}\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 2)
	require.ElementsMatch(t, []mutate.MutationOp{mutate.True, mutate.False}, opsOf(result.Mutants))
	require.Equal(t, "enabled", result.Mutants[0].FullFunctionName)
}

func TestDiscoverNoReturnTypeYieldsUnit(t *testing.T) {
	root := t.TempDir()
	src := fileOf(t, root, "src/lib.rs", "fn log_it() {\n    println!(\"hi\");\n}\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 1)
	require.Equal(t, mutate.Unit, result.Mutants[0].Op)
}

func TestDiscoverExplicitUnitReturnIsUnit(t *testing.T) {
	root := t.TempDir()
	src := fileOf(t, root, "src/lib.rs", "fn log_it() -> () {\n    println!(\"hi\");\n}\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 1)
	require.Equal(t, mutate.Unit, result.Mutants[0].Op)
}

func TestDiscoverSkipsEmptyBody(t *testing.T) {
	root := t.TempDir()
	src := fileOf(t, root, "src/lib.rs", "fn placeholder() -> bool {}\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Empty(t, result.Mutants)
}

func TestDiscoverSkipsNewMethodButKeepsOtherMethods(t *testing.T) {
	root := t.TempDir()
	code := "struct Widget;\n\nimpl Widget {\n    fn new() -> Widget {\n        Widget\n    }\n\n    fn is_ready(&self) -> bool {\n        true\n    }\n}\n"
	src := fileOf(t, root, "src/lib.rs", code)

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 2)
	require.Equal(t, "Widget::is_ready", result.Mutants[0].FullFunctionName)
}

func TestDiscoverFreeFunctionNamedNewIsNotSkipped(t *testing.T) {
	root := t.TempDir()
	src := fileOf(t, root, "src/lib.rs", "fn new() -> bool {\n    true\n}\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 2)
}

func TestDiscoverImplTraitNamespaceNaming(t *testing.T) {
	root := t.TempDir()
	code := "struct Counter;\n\nimpl Iterator for Counter {\n    type Item = u32;\n\n    fn next(&mut self) -> Option<u32> {\n        None\n    }\n}\n"
	src := fileOf(t, root, "src/lib.rs", code)

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 1)
	require.Equal(t, "<impl Iterator for Counter>::next", result.Mutants[0].FullFunctionName)
}

func TestDiscoverSkipsDefaultImplEntirely(t *testing.T) {
	root := t.TempDir()
	code := "struct Config;\n\nimpl Default for Config {\n    fn new_default() -> Config {\n        Config\n    }\n}\n"
	src := fileOf(t, root, "src/lib.rs", code)

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Empty(t, result.Mutants)
}

func TestDiscoverStringReturnYieldsEmptyStringAndXyzzy(t *testing.T) {
	root := t.TempDir()
	src := fileOf(t, root, "src/lib.rs", "fn label() -> String {\n    String::from(\"x\")\n}\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.ElementsMatch(t, []mutate.MutationOp{mutate.EmptyString, mutate.Xyzzy}, opsOf(result.Mutants))
}

func TestDiscoverResultReturnTypeByFinalSegment(t *testing.T) {
	root := t.TempDir()
	src := fileOf(t, root, "src/lib.rs", "fn load() -> std::io::Result<Config> {\n    unimplemented!()\n}\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 1)
	require.Equal(t, mutate.OkDefault, result.Mutants[0].Op)
}

func TestDiscoverOtherReturnTypeFallsBackToDefault(t *testing.T) {
	root := t.TempDir()
	src := fileOf(t, root, "src/lib.rs", "fn count() -> u32 {\n    0\n}\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 1)
	require.Equal(t, mutate.Default, result.Mutants[0].Op)
}

func TestDiscoverSkipsCfgTestFunction(t *testing.T) {
	root := t.TempDir()
	code := "#[cfg(test)]\nfn helper() -> bool {\n    true\n}\n"
	src := fileOf(t, root, "src/lib.rs", code)

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Empty(t, result.Mutants)
}

func TestDiscoverSkipsTestAttributeFunction(t *testing.T) {
	root := t.TempDir()
	code := "#[test]\nfn it_works() -> bool {\n    true\n}\n"
	src := fileOf(t, root, "src/lib.rs", code)

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Empty(t, result.Mutants)
}

func TestDiscoverSkipsMutantsSkipAttribute(t *testing.T) {
	root := t.TempDir()
	code := "#[mutants::skip]\nfn risky() -> bool {\n    true\n}\n"
	src := fileOf(t, root, "src/lib.rs", code)

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Empty(t, result.Mutants)
}

func TestDiscoverSkipsMutantsSkipNestedInCfgAttr(t *testing.T) {
	root := t.TempDir()
	code := "#[cfg_attr(test, mutants::skip)]\nfn risky() -> bool {\n    true\n}\n"
	src := fileOf(t, root, "src/lib.rs", code)

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Empty(t, result.Mutants)
}

func TestDiscoverNestedModuleContributesNamespace(t *testing.T) {
	root := t.TempDir()
	code := "mod util {\n    pub fn ready() -> bool {\n        true\n    }\n}\n"
	src := fileOf(t, root, "src/lib.rs", code)

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 2)
	require.Equal(t, "util::ready", result.Mutants[0].FullFunctionName)
}

func TestDiscoverModStatementResolvesSiblingFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "util.rs"), []byte("fn x() {}\n"), 0o644))
	src := fileOf(t, root, "src/lib.rs", "mod util;\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	require.Len(t, result.MoreFiles, 1)
	require.Equal(t, "src/util.rs", result.MoreFiles[0].String())
}

func TestDiscoverModStatementResolvesSubdirectoryModRs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "util"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "util", "mod.rs"), []byte("fn x() {}\n"), 0o644))
	src := fileOf(t, root, "src/lib.rs", "mod util;\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.MoreFiles, 1)
	require.Equal(t, "src/util/mod.rs", result.MoreFiles[0].String())
}

func TestDiscoverModStatementWarnsWhenFileMissing(t *testing.T) {
	root := t.TempDir()
	src := fileOf(t, root, "src/lib.rs", "mod missing;\n")

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Empty(t, result.MoreFiles)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], "missing")
}

func TestDiscoverNonModRsFileUsesStemDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "widget"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "widget", "mod.rs"), []byte("fn x() {}\n"), 0o644))
	src := fileOf(t, root, "src/widget.rs", "mod detail;\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "widget", "detail.rs"), []byte("fn y() {}\n"), 0o644))

	result, err := Discover(src, root)
	require.NoError(t, err)
	require.Len(t, result.MoreFiles, 1)
	require.Equal(t, "src/widget/detail.rs", result.MoreFiles[0].String())
}
