package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cargomutate/cargomutate/internal/source"
	"github.com/cargomutate/cargomutate/internal/treepath"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, relative, code string) *source.File {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relative))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(code), 0o644))
	src, err := source.New(root, treepath.MustNew(relative), "demo")
	require.NoError(t, err)
	return src
}

func TestWalkFollowsModStatementsAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/util.rs", "fn ready() -> bool {\n    true\n}\n")
	seed := writeFile(t, root, "src/lib.rs", "mod util;\n\nfn top() -> bool {\n    false\n}\n")

	result, err := Walk(root, []*source.File{seed}, Options{}, nil)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 4)
	require.ElementsMatch(t, []string{"src/lib.rs", "src/util.rs"}, pathStrings(result.SeenFiles))
}

func TestWalkGlobFilteredFileStillFollowsModButDropsMutants(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/generated/util.rs", "fn ready() -> bool {\n    true\n}\n")
	seed := writeFile(t, root, "src/generated/lib.rs", "mod util;\n\nfn top() -> bool {\n    false\n}\n")

	result, err := Walk(root, []*source.File{seed}, Options{ExcludeGlobs: []string{"src/generated/**"}}, nil)
	require.NoError(t, err)
	require.Empty(t, result.Mutants)
	require.Empty(t, result.SeenFiles)
}

func TestWalkExamineGlobRestrictsSeenFiles(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "src/a.rs", "fn a() -> bool {\n    true\n}\n")
	b := writeFile(t, root, "src/b.rs", "fn b() -> bool {\n    true\n}\n")

	result, err := Walk(root, []*source.File{a, b}, Options{ExamineGlobs: []string{"src/a.rs"}}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"src/a.rs"}, pathStrings(result.SeenFiles))
	require.Len(t, result.Mutants, 2)
}

func TestWalkExamineReFiltersIndividualMutants(t *testing.T) {
	root := t.TempDir()
	seed := writeFile(t, root, "src/lib.rs", "fn keep_me() -> bool {\n    true\n}\n\nfn drop_me() -> bool {\n    false\n}\n")

	result, err := Walk(root, []*source.File{seed}, Options{ExamineRe: []string{"keep_me"}}, nil)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 2)
	for _, m := range result.Mutants {
		require.Contains(t, m.FullFunctionName, "keep_me")
	}
}

func TestWalkExcludeReDropsMatchingMutants(t *testing.T) {
	root := t.TempDir()
	seed := writeFile(t, root, "src/lib.rs", "fn keep_me() -> bool {\n    true\n}\n\nfn drop_me() -> bool {\n    false\n}\n")

	result, err := Walk(root, []*source.File{seed}, Options{ExcludeRe: []string{"drop_me"}}, nil)
	require.NoError(t, err)
	require.Len(t, result.Mutants, 2)
	for _, m := range result.Mutants {
		require.NotContains(t, m.FullFunctionName, "drop_me")
	}
}

func TestWalkDetectsCycleWithoutInfiniteLoop(t *testing.T) {
	root := t.TempDir()
	// main.rs and lib.rs resolve sibling modules in their own directory, so
	// these two files name each other.
	writeFile(t, root, "src/main.rs", "mod lib;\n")
	writeFile(t, root, "src/lib.rs", "mod main;\n")
	seed := writeFile(t, root, "src/main.rs", "mod lib;\n")

	result, err := Walk(root, []*source.File{seed}, Options{}, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"src/main.rs", "src/lib.rs"}, pathStrings(result.SeenFiles))
}

func TestWalkStopsOnInterruption(t *testing.T) {
	root := t.TempDir()
	seed := writeFile(t, root, "src/lib.rs", "fn a() -> bool { true }\n")

	_, err := Walk(root, []*source.File{seed}, Options{}, func() bool { return true })
	require.ErrorIs(t, err, ErrInterrupted)
}

func pathStrings(paths []treepath.Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}
