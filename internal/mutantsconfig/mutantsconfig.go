// Package mutantsconfig loads the optional .cargo/mutants.toml config file
// that narrows which files and functions get mutated, and supplies extra
// cargo arguments.
package mutantsconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the recognized shape of .cargo/mutants.toml. Every field is
// optional; any field not named here causes a parse error.
type Config struct {
	ExamineGlobs            []string `toml:"examine_globs"`
	ExcludeGlobs            []string `toml:"exclude_globs"`
	ExamineRe               []string `toml:"examine_re"`
	ExcludeRe               []string `toml:"exclude_re"`
	AdditionalCargoArgs     []string `toml:"additional_cargo_args"`
	AdditionalCargoTestArgs []string `toml:"additional_cargo_test_args"`
}

// Path is the config file's fixed location relative to a workspace root.
const Path = ".cargo/mutants.toml"

// Load reads and parses workspaceRoot/.cargo/mutants.toml. A missing file
// is not an error: it yields the zero Config. A present file with unknown
// fields is a fatal configuration error.
func Load(workspaceRoot string) (Config, error) {
	path := filepath.Join(workspaceRoot, filepath.FromSlash(Path))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", Path, err)
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", Path, err)
	}
	return cfg, nil
}
