package mutantsconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsZeroConfig(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
}

func TestLoadParsesRecognizedFields(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cargo"), 0o755))
	content := `
examine_globs = ["src/**"]
exclude_globs = ["src/generated/**"]
additional_cargo_args = ["--release"]
additional_cargo_test_args = ["--lib", "--no-fail-fast"]
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".cargo", "mutants.toml"), []byte(content), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, []string{"src/**"}, cfg.ExamineGlobs)
	require.Equal(t, []string{"src/generated/**"}, cfg.ExcludeGlobs)
	require.Equal(t, []string{"--release"}, cfg.AdditionalCargoArgs)
	require.Equal(t, []string{"--lib", "--no-fail-fast"}, cfg.AdditionalCargoTestArgs)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cargo"), 0o755))
	content := "typo_field = [\"oops\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".cargo", "mutants.toml"), []byte(content), 0o644))

	_, err := Load(root)
	require.Error(t, err)
}
